package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"chain-metrics/internal/domain"
)

func TestPrintSnapshot(t *testing.T) {
	var out bytes.Buffer
	printSnapshot(&out, domain.Snapshot{
		BlockHeight:     840000,
		NetworkHashRate: 6.5e20,
		Difficulty:      8.6e13,
		MempoolSize:     512,
	})

	assert.Equal(t, "Block Height: 840000\n"+
		"Network Hash Rate: 6.5e+20\n"+
		"Difficulty: 8.6e+13\n"+
		"Mempool Size: 512\n", out.String())
}
