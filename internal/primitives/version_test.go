package primitives

import "testing"

func TestComputeVersion(t *testing.T) {
	a := sampleTree()
	b := sampleTree()
	if ComputeVersion(a) != ComputeVersion(b) {
		t.Error("identical trees should share a version")
	}

	b.States[0].State("child3")
	if ComputeVersion(a) == ComputeVersion(b) {
		t.Error("different trees should not share a version")
	}

	a.Version = "v2"
	if got := ComputeVersion(a); got != "v2" {
		t.Errorf("got %q want v2", got)
	}
}
