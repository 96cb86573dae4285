// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package jsep

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperations_Enqueue(t *testing.T) {
	ops := newOperations(nil)
	for i := 0; i < 100; i++ {
		results := make([]int, 16)
		for i := range results {
			func(j int) {
				assert.True(t, ops.Enqueue(func() {
					results[j] = j * j
				}))
			}(i)
		}

		ops.Done()
		expected := []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81, 100, 121, 144, 169, 196, 225}
		assert.Equal(t, len(expected), len(results))
		assert.Equal(t, expected, results)
	}
}

func TestOperations_Done(*testing.T) {
	ops := newOperations(nil)
	ops.Done()
}

func TestOperations_OnEmptyChain(t *testing.T) {
	var emptied atomic.Int32
	ops := newOperations(func() {
		emptied.Add(1)
	})

	ops.Enqueue(func() {})
	ops.Done()
	ops.GracefulClose()

	assert.GreaterOrEqual(t, emptied.Load(), int32(1))
}

func TestOperations_GracefulClose(t *testing.T) {
	ops := newOperations(nil)

	var ran atomic.Bool
	block := make(chan struct{})
	assert.True(t, ops.Enqueue(func() {
		<-block
		ran.Store(true)
	}))

	go close(block)
	ops.GracefulClose()
	assert.True(t, ran.Load())

	assert.False(t, ops.Enqueue(func() {}), "closed queue must reject operations")
	ops.Done()
	ops.GracefulClose()
}
