package device

import (
	"errors"
	"testing"
)

// TestSelectQueuesAliasesOnSingleFamily covers §8 scenario 6: on a
// device with only one queue family supporting graphics+present+
// compute+transfer and a single queue, all three logical roles alias
// to family 0, queue index 0.
func TestSelectQueuesAliasesOnSingleFamily(t *testing.T) {
	families := []FamilyProperties{
		{Index: 0, QueueCount: 1, Graphics: true, Compute: true, Transfer: true, Present: true},
	}
	a, err := SelectQueues(families)
	if err != nil {
		t.Fatalf("SelectQueues: %v", err)
	}
	for name, lq := range map[string]LogicalQueue{"graphics": a.Graphics, "compute": a.Compute, "transfer": a.Transfer} {
		if lq.FamilyIndex != 0 || lq.QueueIndex != 0 {
			t.Errorf("%s = %+v, want family 0 queue 0", name, lq)
		}
	}
}

// TestSelectQueuesDistinctFamiliesDoNotAlias covers fully dedicated
// families (one graphics+present, one compute-only, one transfer-only):
// each logical queue gets queue index 0 in its own family.
func TestSelectQueuesDistinctFamiliesDoNotAlias(t *testing.T) {
	families := []FamilyProperties{
		{Index: 0, QueueCount: 1, Graphics: true, Present: true},
		{Index: 1, QueueCount: 1, Compute: true},
		{Index: 2, QueueCount: 1, Transfer: true},
	}
	a, err := SelectQueues(families)
	if err != nil {
		t.Fatalf("SelectQueues: %v", err)
	}
	if a.Graphics.FamilyIndex != 0 {
		t.Errorf("graphics family = %d, want 0", a.Graphics.FamilyIndex)
	}
	if a.Compute.FamilyIndex != 1 {
		t.Errorf("compute family = %d, want 1", a.Compute.FamilyIndex)
	}
	if a.Transfer.FamilyIndex != 2 {
		t.Errorf("transfer family = %d, want 2", a.Transfer.FamilyIndex)
	}
	if !a.GraphicsFamilyIsPresentCapable {
		t.Error("GraphicsFamilyIsPresentCapable = false, want true")
	}
}

// TestSelectQueuesSharedFamilyAdvancesQueueIndex covers the case where
// graphics and compute share one family with two queues: compute gets
// queue index 1 rather than re-using graphics' queue 0.
func TestSelectQueuesSharedFamilyAdvancesQueueIndex(t *testing.T) {
	families := []FamilyProperties{
		{Index: 0, QueueCount: 2, Graphics: true, Compute: true, Present: true},
		{Index: 1, QueueCount: 1, Transfer: true},
	}
	a, err := SelectQueues(families)
	if err != nil {
		t.Fatalf("SelectQueues: %v", err)
	}
	if a.Graphics.FamilyIndex != 0 || a.Graphics.QueueIndex != 0 {
		t.Errorf("graphics = %+v, want family 0 queue 0", a.Graphics)
	}
	if a.Compute.FamilyIndex != 0 || a.Compute.QueueIndex != 1 {
		t.Errorf("compute = %+v, want family 0 queue 1", a.Compute)
	}
}

func TestSelectQueuesNoGraphicsPresentFamily(t *testing.T) {
	families := []FamilyProperties{
		{Index: 0, QueueCount: 1, Graphics: true, Present: false},
	}
	_, err := SelectQueues(families)
	if !errors.Is(err, ErrNoGraphicsPresentFamily) {
		t.Fatalf("SelectQueues error = %v, want ErrNoGraphicsPresentFamily", err)
	}
}

func TestSelectQueuesNoComputeFamily(t *testing.T) {
	families := []FamilyProperties{
		{Index: 0, QueueCount: 1, Graphics: true, Present: true, Transfer: true},
	}
	_, err := SelectQueues(families)
	if !errors.Is(err, ErrNoComputeFamily) {
		t.Fatalf("SelectQueues error = %v, want ErrNoComputeFamily", err)
	}
}

func TestSelectQueuesNoTransferFamily(t *testing.T) {
	families := []FamilyProperties{
		{Index: 0, QueueCount: 1, Graphics: true, Present: true, Compute: true},
	}
	_, err := SelectQueues(families)
	if !errors.Is(err, ErrNoTransferFamily) {
		t.Fatalf("SelectQueues error = %v, want ErrNoTransferFamily", err)
	}
}

func TestDeviceQueueCreateInfosOneEntryPerUsedFamily(t *testing.T) {
	families := []FamilyProperties{
		{Index: 0, QueueCount: 2, Graphics: true, Compute: true, Present: true},
		{Index: 1, QueueCount: 1, Transfer: true},
	}
	a, err := SelectQueues(families)
	if err != nil {
		t.Fatalf("SelectQueues: %v", err)
	}
	infos := DeviceQueueCreateInfos(a)
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	byFamily := map[uint32]uint32{}
	for _, info := range infos {
		byFamily[info.QueueFamilyIndex] = info.QueueCount
	}
	if byFamily[0] != 2 {
		t.Errorf("family 0 QueueCount = %d, want 2 (graphics queue 0 + compute queue 1)", byFamily[0])
	}
	if byFamily[1] != 1 {
		t.Errorf("family 1 QueueCount = %d, want 1", byFamily[1])
	}
}
