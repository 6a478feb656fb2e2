package search

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/prodsearch/internal/domain"
)

func tagged(lexical, vector []string) []domain.Candidate {
	c := tagCandidates(lexical, domain.SourceText)
	return append(c, tagCandidates(vector, domain.SourceEmbedding)...)
}

func TestMerge_TextBeforeEmbedding(t *testing.T) {
	got := mergeCandidates(tagged(
		[]string{"T1", "T2"},
		[]string{"V1", "V2"},
	))
	want := []string{"T1", "T2", "V1", "V2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("merged = %v, want %v", got, want)
	}
}

func TestMerge_DedupKeepsTextMatch(t *testing.T) {
	// P3 fires in both sources: it survives exactly once, as a text match,
	// at its lexical rank.
	got := mergeCandidates(tagged(
		[]string{"P1", "P3"},
		[]string{"P3", "P4"},
	))
	want := []string{"P1", "P3", "P4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("merged = %v, want %v", got, want)
	}
}

func TestMerge_PreservesSourceOrderWithinGroups(t *testing.T) {
	got := mergeCandidates(tagged(
		[]string{"B", "A", "C"},
		[]string{"Z", "A", "X"},
	))
	// Text group keeps lexical order, embedding group keeps distance order
	// minus the entry promoted out by dedup.
	want := []string{"B", "A", "C", "Z", "X"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("merged = %v, want %v", got, want)
	}
}

func TestMerge_NoLossNoInvention(t *testing.T) {
	lexical := []string{"a", "b", "c"}
	vector := []string{"c", "d", "e"}
	got := mergeCandidates(tagged(lexical, vector))

	union := map[string]bool{}
	for _, id := range append(append([]string{}, lexical...), vector...) {
		union[id] = true
	}

	seen := map[string]bool{}
	for _, id := range got {
		if !union[id] {
			t.Errorf("invented identifier %q", id)
		}
		if seen[id] {
			t.Errorf("identifier %q appears twice", id)
		}
		seen[id] = true
	}
	if len(got) != len(union) {
		t.Errorf("expected %d unique identifiers, got %d", len(union), len(got))
	}
}

func TestMerge_EmptySources(t *testing.T) {
	if got := mergeCandidates(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	got := mergeCandidates(tagged(nil, []string{"V1"}))
	if !reflect.DeepEqual(got, []string{"V1"}) {
		t.Errorf("merged = %v, want [V1]", got)
	}
}
