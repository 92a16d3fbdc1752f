package timeline

import "fmt"

// VolumeSteps are the fixed volume adjustments a right-click context
// menu offers on a cut, in dB. Mirrors the step list a GUI would
// populate into a submenu; kept here since the vocabulary of what is
// offered is domain logic, not shell plumbing.
var VolumeSteps = []int{-25, -20, -15, -13, -10, -8, -5, -3, 0, 3, 5, 8, 10, 13}

// CutActions enumerates the mutations a transaction can apply to a
// single cut: the toggle between mix strategies, ripple delete, split
// at a position, and the fixed volume-step presets.
type CutActions struct {
	txn *Transaction
}

// NewCutActions scopes the context-menu vocabulary to a transaction.
func NewCutActions(txn *Transaction) CutActions {
	return CutActions{txn: txn}
}

// ToggleMixStrategy flips a cut between MixOver and MixUnder.
func (a CutActions) ToggleMixStrategy(cutID string) error {
	return a.txn.Modify(cutID, func(c Cut) Cut {
		if c.MixStrategy == MixOver {
			return c.WithMixStrategy(MixUnder)
		}
		return c.WithMixStrategy(MixOver)
	})
}

// SetVolume applies one of VolumeSteps to a cut. It returns an error
// if levelDB is not one of the fixed presets.
func (a CutActions) SetVolume(cutID string, levelDB int) error {
	valid := false
	for _, step := range VolumeSteps {
		if step == levelDB {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("volume %d is not one of the fixed presets", levelDB)
	}
	return a.txn.Modify(cutID, func(c Cut) Cut {
		return c.WithVolume(levelDB)
	})
}

// RippleDelete removes cutID and shifts every later-starting cut left
// by the distance from the deleted cut's start to the nearest later
// cut start.
func (a CutActions) RippleDelete(cutID string) error {
	return a.txn.RippleDelete(cutID)
}

// SplitAtPlayhead splits cutID at position, if position falls strictly
// inside it.
func (a CutActions) SplitAtPlayhead(cutID string, position int) error {
	return a.txn.Split(cutID, position)
}
