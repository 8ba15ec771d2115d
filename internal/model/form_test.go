package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormReference(t *testing.T) {
	tests := []struct {
		branch string
		want   string
	}{
		{"Ajah", "AJAH"},
		{"  abakpa/ new haven ", "ABAKPA/ NEW HAVEN"},
		{"", ""},
	}
	for _, tt := range tests {
		f := Form{Branch: tt.branch}
		assert.Equal(t, tt.want, f.Reference(), "Reference(%q)", tt.branch)
	}
}

func TestFormSetAmount(t *testing.T) {
	var f Form
	f.SetAmount("offering", decimal.NewFromInt(100))
	f.SetAmount("tithe", decimal.NewFromInt(200))
	f.SetAmount("offering", decimal.NewFromInt(150))

	require.Len(t, f.Amounts, 2)
	assert.Equal(t, "offering", f.Amounts[0].Field, "replacing keeps position")
	assert.True(t, f.Amount("offering").Equal(decimal.NewFromInt(150)))
	assert.True(t, f.Amount("missing").IsZero())
}

func TestFormStatusValid(t *testing.T) {
	for _, s := range []FormStatus{StatusUnreviewed, StatusReviewed, StatusPosted} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, FormStatus("archived").Valid())
	assert.True(t, SideDebit.Valid())
	assert.True(t, SideCredit.Valid())
	assert.False(t, Side("X").Valid())
}
