package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScopeFilter(t *testing.T) {
	tests := []struct {
		input  string
		want   ScopeFilter
		wantOK bool
	}{
		{input: "", want: ScopeFullMarket, wantOK: true},
		{input: "Full Market", want: ScopeFullMarket, wantOK: true},
		{input: "full", want: ScopeFullMarket, wantOK: true},
		{input: "SMALL CAP", want: ScopeSmallCap, wantOK: true},
		{input: "small", want: ScopeSmallCap, wantOK: true},
		{input: "Mid Cap", want: ScopeMidCap, wantOK: true},
		{input: "large  cap", want: ScopeLargeCap, wantOK: true},
		{input: "Long Term", want: ScopeLongTerm, wantOK: true},
		{input: "targeted", want: ScopeTargeted, wantOK: true},
		{input: "mega cap", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseScopeFilter(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseSummaryMode(t *testing.T) {
	tests := []struct {
		input  string
		want   SummaryMode
		wantOK bool
	}{
		{input: "", want: SummaryStandard, wantOK: true},
		{input: "Standard", want: SummaryStandard, wantOK: true},
		{input: "AI", want: SummaryAI, wantOK: true},
		{input: "ai", want: SummaryAI, wantOK: true},
		{input: "chatbot", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSummaryMode(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestScanOptionsDefaults(t *testing.T) {
	t.Run("zero values resolve to scope defaults", func(t *testing.T) {
		opts := ScanOptions{Scope: ScopeFullMarket}
		assert.Equal(t, 3, opts.EffectiveTopTickers())
		assert.Equal(t, 3, opts.EffectiveTopTrades())
		assert.Equal(t, 60, opts.EffectiveHorizonDays())
	})

	t.Run("long term widens the ticker count", func(t *testing.T) {
		opts := ScanOptions{Scope: ScopeLongTerm}
		assert.Equal(t, 5, opts.EffectiveTopTickers())
	})

	t.Run("explicit values win", func(t *testing.T) {
		opts := ScanOptions{Scope: ScopeLongTerm, TopTickers: 10, TopTrades: 2, LongTermHorizonDays: 90}
		assert.Equal(t, 10, opts.EffectiveTopTickers())
		assert.Equal(t, 2, opts.EffectiveTopTrades())
		assert.Equal(t, 90, opts.EffectiveHorizonDays())
	})
}
