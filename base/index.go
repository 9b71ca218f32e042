// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

// Index manages the map between sparse names and dense indices. A sparse name is
// a user ID or item ID as it appears in an input table. Every added name occupies
// its own dense index in insertion order, so an index is a row numbering of the
// table it was built from. A name added twice keeps both rows, and lookups by name
// resolve to the first one.
type Index struct {
	Numbers map[string]int32 // sparse ID -> first dense index
	Names   []string         // dense index -> sparse ID
}

// NotId represents an ID doesn't exist.
const NotId = int32(-1)

// NewMapIndex creates a Index.
func NewMapIndex() *Index {
	set := new(Index)
	set.Numbers = make(map[string]int32)
	set.Names = make([]string, 0)
	return set
}

// Len returns the number of indexed rows.
func (idx *Index) Len() int32 {
	if idx == nil {
		return 0
	}
	return int32(len(idx.Names))
}

// Add appends a row for name and returns its dense index.
func (idx *Index) Add(name string) int32 {
	number := int32(len(idx.Names))
	if _, exist := idx.Numbers[name]; !exist {
		idx.Numbers[name] = number
	}
	idx.Names = append(idx.Names, name)
	return number
}

// Contains reports whether name has been added.
func (idx *Index) Contains(name string) bool {
	if idx == nil {
		return false
	}
	_, exist := idx.Numbers[name]
	return exist
}

// ToNumber converts a sparse ID to a dense index.
func (idx *Index) ToNumber(name string) int32 {
	if idx == nil {
		return NotId
	}
	if denseId, exist := idx.Numbers[name]; exist {
		return denseId
	}
	return NotId
}

// ToName converts a dense index to a sparse ID.
func (idx *Index) ToName(index int32) string {
	return idx.Names[index]
}

// GetNames returns all names in current index.
func (idx *Index) GetNames() []string {
	return idx.Names
}
