// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package util provides auxiliary functions internally used in jsep package
package util

import (
	"errors"
	"strings"

	"github.com/pion/randutil"
)

const runesAlpha = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MathRandAlpha generates a random alphabetic sequence of the requested
// length. It is used for identifiers that must be unique but need not be
// unpredictable, e.g. the RTCP CNAME.
func MathRandAlpha(n int) string {
	return randutil.NewMathRandomGenerator().GenerateString(n, runesAlpha)
}

// FlattenErrs folds multiple errors into one, dropping nil entries.
// It returns nil if no error remains.
func FlattenErrs(errs []error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	return multiError(kept)
}

type multiError []error

func (me multiError) Error() string {
	msgs := make([]string, 0, len(me))
	for _, err := range me {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "\n")
}

func (me multiError) Is(err error) bool {
	for _, e := range me {
		if errors.Is(e, err) {
			return true
		}
	}

	return false
}
