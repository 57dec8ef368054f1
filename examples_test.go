package trmc_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/trmc"
	"github.com/aretw0/trmc/pkg/domain"
)

func TestExamplePrograms(t *testing.T) {
	tests := []struct {
		file       string
		input      string
		wantTape   string
		wantCursor int
		wantReason domain.HaltReason
	}{
		{"invert.trmc", "0110", "1001", 3, domain.HaltRightEdge},
		{"increment.trmc", "1011", "1100", 1, domain.HaltEnd},
		{"decrement.trmc", "1000", "0111", 0, domain.HaltEnd},
		{"clear.trmc", "1011", "0000", 3, domain.HaltRightEdge},
		{"seek.trmc", "0010", "0010", 2, domain.HaltEnd},
		{"seek.trmc", "000", "000", 2, domain.HaltRightEdge},
	}

	engine := trmc.New(trmc.WithStrict(true), trmc.WithMaxSteps(1000))
	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.input, func(t *testing.T) {
			prog, err := engine.Load(filepath.Join("examples", "programs", tt.file))
			require.NoError(t, err)
			assert.True(t, engine.Validate(prog).OK(), "%v", engine.Validate(prog).Lines())

			res, err := engine.RunString(context.Background(), prog, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTape, res.Output())
			assert.Equal(t, tt.wantCursor, res.Cursor)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}
}
