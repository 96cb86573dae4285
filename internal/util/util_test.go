// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package util

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMathRandAlpha(t *testing.T) {
	isLetter := regexp.MustCompile(`^[a-zA-Z]+$`).MatchString

	value := MathRandAlpha(16)
	assert.Len(t, value, 16)
	assert.True(t, isLetter(value))
}

func TestFlattenErrs(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	assert.NoError(t, FlattenErrs(nil))
	assert.NoError(t, FlattenErrs([]error{nil, nil}))

	err := FlattenErrs([]error{errA, nil, errB})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, "a\nb", err.Error())

	nested := FlattenErrs([]error{FlattenErrs([]error{errA}), errors.New("c")})
	assert.ErrorIs(t, nested, errA)
}
