package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type dumpSample struct {
	Name  string
	Items []*int
}

func TestSDumpHidesAddresses(t *testing.T) {
	a, b := 1, 1
	first := SDump(dumpSample{Name: "mesh", Items: []*int{&a}})
	second := SDump(dumpSample{Name: "mesh", Items: []*int{&b}})

	assert.Equal(t, first, second)
	assert.True(t, strings.Contains(first, `"mesh"`))
	assert.False(t, strings.Contains(first, "0xc"))
}
