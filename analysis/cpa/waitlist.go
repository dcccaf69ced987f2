// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cpa

import "fmt"

// WaitlistOrder is the exploration order of the algorithm
type WaitlistOrder string

const (
	// DepthFirst explores the most recently added state first (stack)
	DepthFirst WaitlistOrder = "dfs"
	// BreadthFirst explores the least recently added state first (queue)
	BreadthFirst WaitlistOrder = "bfs"
)

// A Waitlist holds the states that remain to be explored
type Waitlist interface {
	Push(s *ARGState)
	// Pop removes and returns the next state. It must not be called on an empty waitlist.
	Pop() *ARGState
	Len() int
}

// NewWaitlist returns an empty waitlist with the given order. The empty order is DepthFirst.
func NewWaitlist(order WaitlistOrder) (Waitlist, error) {
	switch order {
	case DepthFirst, "":
		return &Stack{}, nil
	case BreadthFirst:
		return &Queue{}, nil
	}
	return nil, fmt.Errorf("unknown waitlist order %q", order)
}

// Stack is a last-in first-out Waitlist
type Stack struct {
	items []*ARGState
}

// Push adds s on top of the stack
func (w *Stack) Push(s *ARGState) {
	w.items = append(w.items, s)
}

// Pop removes the top of the stack
func (w *Stack) Pop() *ARGState {
	s := w.items[len(w.items)-1]
	w.items[len(w.items)-1] = nil
	w.items = w.items[:len(w.items)-1]
	return s
}

// Len returns the number of states in the stack
func (w *Stack) Len() int {
	return len(w.items)
}

// Queue is a first-in first-out Waitlist
type Queue struct {
	items []*ARGState
	head  int
}

// Push adds s at the end of the queue
func (w *Queue) Push(s *ARGState) {
	w.items = append(w.items, s)
}

// Pop removes the head of the queue
func (w *Queue) Pop() *ARGState {
	s := w.items[w.head]
	w.items[w.head] = nil
	w.head++
	if w.head > len(w.items)/2 {
		w.items = append([]*ARGState(nil), w.items[w.head:]...)
		w.head = 0
	}
	return s
}

// Len returns the number of states in the queue
func (w *Queue) Len() int {
	return len(w.items) - w.head
}
