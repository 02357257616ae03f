package models

import "testing"

func TestStatusPredicates(t *testing.T) {
	negotiable := map[ProposalStatus]bool{
		StatusOpen:        true,
		StatusClosedToNew: true,
		StatusFinalized:   false,
		StatusCancelled:   false,
		StatusDeleted:     false,
	}
	for status, want := range negotiable {
		if status.Negotiable() != want {
			t.Fatalf("%s.Negotiable() = %v, want %v", status, !want, want)
		}
		if status.Terminal() == want {
			t.Fatalf("%s should be exactly one of negotiable or terminal", status)
		}
	}
}

func TestParseField(t *testing.T) {
	for _, f := range PlannableFields {
		got, ok := ParseField(string(f))
		if !ok || got != f {
			t.Fatalf("ParseField(%q) = %q, %v", f, got, ok)
		}
	}
	for _, name := range []string{"", "title", "status", "Description"} {
		if _, ok := ParseField(name); ok {
			t.Fatalf("ParseField(%q) should fail", name)
		}
	}
}

func TestFinalFlagCoversEveryField(t *testing.T) {
	var p TripProposal
	for _, f := range PlannableFields {
		flag := p.FinalFlag(f)
		if flag == nil {
			t.Fatalf("FinalFlag(%s) returned nil", f)
		}
		if *flag {
			t.Fatalf("field %s should start unfinalized", f)
		}
	}

	p.SetAllFinal(true)
	for f, final := range p.FinalFlags() {
		if !final {
			t.Fatalf("SetAllFinal(true) missed %s", f)
		}
	}
	p.SetAllFinal(false)
	for f, final := range p.FinalFlags() {
		if final {
			t.Fatalf("SetAllFinal(false) missed %s", f)
		}
	}
}
