// Copyright 2025 gorse Project Authors
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

package libfm

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/gorse-io/gorse-libfm/base"
)

// Index assigns the three disjoint feature spaces of a libFM file:
//
//	users          [0, NumUsers)
//	items          [NumUsers, NumUsers+NumItems), train rows then test rows
//	similar items  [NumUsers+NumItems, NumUsers+2*NumItems)
//
// It is built once and shared read-only by every builder.
type Index struct {
	Users         *base.Index
	Items         *base.Index
	NumUsers      int32
	NumTrainItems int32
	NumTestItems  int32
	testRows      *bitset.BitSet
}

// NewIndex creates an index from user, train item and test item ids in table order.
func NewIndex(users, trainItems, testItems []string) *Index {
	idx := &Index{
		Users:         base.NewMapIndex(),
		Items:         base.NewMapIndex(),
		NumUsers:      int32(len(users)),
		NumTrainItems: int32(len(trainItems)),
		NumTestItems:  int32(len(testItems)),
		testRows:      bitset.New(uint(len(trainItems) + len(testItems))),
	}
	for _, userId := range users {
		idx.Users.Add(userId)
	}
	for _, itemId := range trainItems {
		idx.Items.Add(itemId)
	}
	for _, itemId := range testItems {
		idx.testRows.Set(uint(idx.Items.Add(itemId)))
	}
	return idx
}

// NumItems returns the number of train and test item rows.
func (idx *Index) NumItems() int32 {
	return idx.NumTrainItems + idx.NumTestItems
}

// UserIndex returns the feature index of a user or base.NotId.
func (idx *Index) UserIndex(userId string) int32 {
	return idx.Users.ToNumber(userId)
}

// ItemIndex returns the feature index of an item or base.NotId.
func (idx *Index) ItemIndex(itemId string) int32 {
	row := idx.Items.ToNumber(itemId)
	if row == base.NotId {
		return base.NotId
	}
	return idx.NumUsers + row
}

// SimilarItemIndex returns the similar-item slot of an item or base.NotId.
func (idx *Index) SimilarItemIndex(itemId string) int32 {
	itemIndex := idx.ItemIndex(itemId)
	if itemIndex == base.NotId {
		return base.NotId
	}
	return itemIndex + idx.NumItems()
}

// HasItem reports whether the item has been assigned an index.
func (idx *Index) HasItem(itemId string) bool {
	return idx.Items.Contains(itemId)
}

// IsTestRow reports whether the item row belongs to the test partition.
func (idx *Index) IsTestRow(row int32) bool {
	return row >= 0 && idx.testRows.Test(uint(row))
}

// TestItem is a row of the test partition.
type TestItem struct {
	ItemId    string
	ItemIndex int32
}

// TestItems returns the rows of the test partition in index order. A test item
// that also appears in the train table keeps the index of its own row.
func (idx *Index) TestItems() []TestItem {
	items := make([]TestItem, 0, idx.NumTestItems)
	for row, ok := idx.testRows.NextSet(0); ok; row, ok = idx.testRows.NextSet(row + 1) {
		items = append(items, TestItem{
			ItemId:    idx.Items.ToName(int32(row)),
			ItemIndex: idx.NumUsers + int32(row),
		})
	}
	return items
}
