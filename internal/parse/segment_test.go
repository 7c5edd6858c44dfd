package parse

import (
	"strings"
	"testing"
)

func TestSegmentContent(t *testing.T) {
	segments, delivery, warnings := SegmentContent("红烧肉 x2，可乐x3, 选择配送到家 x1", DefaultMarkers())
	if !delivery {
		t.Fatal("delivery flag not set")
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings=%v", warnings)
	}
	if len(segments) != 2 {
		t.Fatalf("segments=%v", segments)
	}
	if segments[0].Name != "红烧肉" || segments[0].Quantity != 2 {
		t.Fatalf("segment0=%+v", segments[0])
	}
	if segments[1].Name != "可乐" || segments[1].Quantity != 3 {
		t.Fatalf("segment1=%+v", segments[1])
	}
}

func TestSegmentContentMissingQuantity(t *testing.T) {
	segments, delivery, warnings := SegmentContent("就要一个", DefaultMarkers())
	if delivery || len(segments) != 0 {
		t.Fatalf("segments=%v delivery=%v", segments, delivery)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "without trailing quantity") {
		t.Fatalf("warnings=%v", warnings)
	}
	if !strings.Contains(warnings[0], "就要一个") {
		t.Fatalf("warning lacks the segment text: %q", warnings[0])
	}
}

func TestSegmentContentDropsTotalPriceClause(t *testing.T) {
	segments, _, warnings := SegmentContent("红烧肉 x2，总价 25", DefaultMarkers())
	if len(segments) != 1 || len(warnings) != 0 {
		t.Fatalf("segments=%v warnings=%v", segments, warnings)
	}
}

func TestSegmentContentNormalizesWhitespace(t *testing.T) {
	segments, _, _ := SegmentContent("红烧  肉  x 4", DefaultMarkers())
	if len(segments) != 1 {
		t.Fatalf("segments=%v", segments)
	}
	if segments[0].Name != "红烧 肉" || segments[0].Quantity != 4 {
		t.Fatalf("segment=%+v", segments[0])
	}
}

func TestSegmentContentEmptyAndCommaNoise(t *testing.T) {
	segments, delivery, warnings := SegmentContent("，， 可乐 x1 ，，", DefaultMarkers())
	if delivery || len(warnings) != 0 {
		t.Fatalf("delivery=%v warnings=%v", delivery, warnings)
	}
	if len(segments) != 1 || segments[0].Name != "可乐" {
		t.Fatalf("segments=%v", segments)
	}
}

func TestSegmentContentQuantityMustTrail(t *testing.T) {
	// the xN must anchor at the end of the clause
	_, _, warnings := SegmentContent("x2 红烧肉", DefaultMarkers())
	if len(warnings) != 1 {
		t.Fatalf("warnings=%v", warnings)
	}
}
