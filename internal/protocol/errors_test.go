package protocol

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolError_Error(t *testing.T) {
	err := New(CodeCleaningAfterBuild, "jets", "cleaning must be enabled before the first build")
	assert.Equal(t, "CLEANING_AFTER_BUILD: cleaning must be enabled before the first build (component=jets)", err.Error())
}

func TestProtocolError_ErrorWithoutComponent(t *testing.T) {
	err := New(CodeDependencyCycle, "", "cycle: a → b → a")
	assert.Equal(t, "DEPENDENCY_CYCLE: cycle: a → b → a", err.Error())
}

func TestProtocolError_DetailsSorted(t *testing.T) {
	err := VariationOutOfRange("pileup", 5, 2)
	assert.Equal(t,
		"VARIATION_OUT_OF_RANGE: variation index 5 outside [0, 2) (component=pileup, index=5, num_variations=2)",
		err.Error())
}

func TestIs_Wrapped(t *testing.T) {
	base := New(CodeChannelAfterSeal, "jer", "space sealed")
	wrapped := fmt.Errorf("setup: %w", base)

	assert.True(t, Is(wrapped, CodeChannelAfterSeal))
	assert.False(t, Is(wrapped, CodeDuplicateChannel))
	assert.False(t, Is(errors.New("plain"), CodeChannelAfterSeal))
	assert.False(t, Is(nil, CodeChannelAfterSeal))
}

func TestRecover_ProtocolPanic(t *testing.T) {
	run := func() (err error) {
		defer func() { err = Recover(recover(), err) }()
		panic(VariationOutOfRange("kfactor", 3, 2))
	}

	err := run()
	require.Error(t, err)
	assert.True(t, Is(err, CodeVariationOutOfRange))
}

func TestRecover_NoPanic(t *testing.T) {
	run := func() (err error) {
		defer func() { err = Recover(recover(), err) }()
		return nil
	}
	assert.NoError(t, run())
}

func TestRecover_ForeignPanicReraised(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_ = func() (err error) {
			defer func() { err = Recover(recover(), err) }()
			panic("boom")
		}()
	})
}
