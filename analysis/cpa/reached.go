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

import (
	"github.com/awslabs/ar-go-cpa/analysis/cfa"
	"github.com/awslabs/ar-go-cpa/internal/funcutil"
	"github.com/bits-and-blooms/bitset"
)

// ReachedSet is the set of states reached by the algorithm, together with the waitlist of the states that remain
// to be explored. Every waiting state is in the reached set: states enter both at once, and a state replaced or
// removed from the reached set stops waiting.
//
// States are kept in insertion order, which is the iteration order of States and StatesAt; a state replacing
// another one takes its position.
type ReachedSet struct {
	states     []*ARGState
	byLocation map[*cfa.Node][]*ARGState
	members    *bitset.BitSet
	waitlist   Waitlist
	// waiting has the ids of the reached states that are in the waitlist. States that are popped from the
	// waitlist without their bit set have been removed from the reached set in the meantime, and are skipped.
	waiting *bitset.BitSet
}

// NewReachedSet returns an empty reached set using the waitlist w
func NewReachedSet(w Waitlist) *ReachedSet {
	return &ReachedSet{
		states:     nil,
		byLocation: map[*cfa.Node][]*ARGState{},
		members:    bitset.New(0),
		waitlist:   w,
		waiting:    bitset.New(0),
	}
}

// Add adds s to the reached set and to the waitlist
func (r *ReachedSet) Add(s *ARGState) {
	if r.Contains(s) {
		return
	}
	r.states = append(r.states, s)
	loc := s.Location()
	r.byLocation[loc] = append(r.byLocation[loc], s)
	r.members.Set(uint(s.id))
	r.push(s)
}

// Replace puts s in place of old in the reached set and adds s to the waitlist. old is removed from the waitlist.
func (r *ReachedSet) Replace(old, s *ARGState) {
	if !r.Contains(old) {
		r.Add(s)
		return
	}
	replaceIn(r.states, old, s)
	loc := old.Location()
	if s.Location() == loc {
		replaceIn(r.byLocation[loc], old, s)
	} else {
		r.byLocation[loc] = funcutil.Remove(r.byLocation[loc], old)
		r.byLocation[s.Location()] = append(r.byLocation[s.Location()], s)
	}
	r.members.Clear(uint(old.id))
	r.waiting.Clear(uint(old.id))
	r.members.Set(uint(s.id))
	r.push(s)
}

func (r *ReachedSet) push(s *ARGState) {
	r.waiting.Set(uint(s.id))
	r.waitlist.Push(s)
}

// Pop removes the next state from the waitlist. It returns false when no state is waiting.
func (r *ReachedSet) Pop() (*ARGState, bool) {
	for r.waitlist.Len() > 0 {
		s := r.waitlist.Pop()
		if r.waiting.Test(uint(s.id)) {
			r.waiting.Clear(uint(s.id))
			return s, true
		}
	}
	return nil, false
}

// HasWaiting returns true if some state remains to be explored
func (r *ReachedSet) HasWaiting() bool {
	return r.waiting.Any()
}

// Waiting returns the number of states that remain to be explored
func (r *ReachedSet) Waiting() int {
	return int(r.waiting.Count())
}

// IsWaiting returns true if s is in the waitlist
func (r *ReachedSet) IsWaiting(s *ARGState) bool {
	return r.waiting.Test(uint(s.id))
}

// Contains returns true if s is in the reached set
func (r *ReachedSet) Contains(s *ARGState) bool {
	return r.members.Test(uint(s.id))
}

// StatesAt returns the reached states at location loc
func (r *ReachedSet) StatesAt(loc *cfa.Node) []*ARGState {
	return append([]*ARGState(nil), r.byLocation[loc]...)
}

// States returns all the reached states
func (r *ReachedSet) States() []*ARGState {
	return append([]*ARGState(nil), r.states...)
}

// Size returns the number of reached states
func (r *ReachedSet) Size() int {
	return len(r.states)
}

func replaceIn(a []*ARGState, old, s *ARGState) {
	for i, x := range a {
		if x == old {
			a[i] = s
			return
		}
	}
}
