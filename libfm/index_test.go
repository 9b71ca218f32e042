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
	"fmt"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/gorse-libfm/base"
	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	index := NewIndex([]string{"u1", "u2", "u3"}, []string{"i1", "i2"}, []string{"i3"})
	assert.Equal(t, int32(3), index.NumUsers)
	assert.Equal(t, int32(2), index.NumTrainItems)
	assert.Equal(t, int32(1), index.NumTestItems)
	assert.Equal(t, int32(3), index.NumItems())

	assert.Equal(t, int32(0), index.UserIndex("u1"))
	assert.Equal(t, int32(2), index.UserIndex("u3"))
	assert.Equal(t, base.NotId, index.UserIndex("u4"))

	assert.Equal(t, int32(3), index.ItemIndex("i1"))
	assert.Equal(t, int32(4), index.ItemIndex("i2"))
	assert.Equal(t, int32(5), index.ItemIndex("i3"))
	assert.Equal(t, base.NotId, index.ItemIndex("i4"))

	assert.Equal(t, int32(6), index.SimilarItemIndex("i1"))
	assert.Equal(t, int32(8), index.SimilarItemIndex("i3"))
	assert.Equal(t, base.NotId, index.SimilarItemIndex("i4"))

	assert.True(t, index.HasItem("i3"))
	assert.False(t, index.HasItem("i4"))
	assert.False(t, index.IsTestRow(0))
	assert.True(t, index.IsTestRow(2))
	assert.False(t, index.IsTestRow(base.NotId))
	assert.Equal(t, []TestItem{{ItemId: "i3", ItemIndex: 5}}, index.TestItems())
}

func TestIndex_Overlap(t *testing.T) {
	// an item in both partitions keeps a row in each
	index := NewIndex([]string{"u1"}, []string{"i1", "i2"}, []string{"i2", "i3"})
	assert.Equal(t, int32(4), index.NumItems())
	assert.Equal(t, []string{"i1", "i2", "i2", "i3"}, index.Items.GetNames())
	assert.Equal(t, int32(2), index.ItemIndex("i2"))
	assert.Equal(t, []TestItem{{ItemId: "i2", ItemIndex: 3}, {ItemId: "i3", ItemIndex: 4}}, index.TestItems())
}

func TestIndex_Disjoint(t *testing.T) {
	for _, size := range []int{0, 1, 7, 100} {
		users := make([]string, size)
		trainItems := make([]string, size*2)
		testItems := make([]string, size/2+1)
		for i := range users {
			users[i] = fmt.Sprintf("u%d", i)
		}
		for i := range trainItems {
			trainItems[i] = fmt.Sprintf("train%d", i)
		}
		for i := range testItems {
			testItems[i] = fmt.Sprintf("test%d", i)
		}
		index := NewIndex(users, trainItems, testItems)

		// users are contiguous from zero
		userIndices := mapset.NewSet[int32]()
		for i, userId := range users {
			assert.Equal(t, int32(i), index.UserIndex(userId))
			userIndices.Add(index.UserIndex(userId))
		}
		// items are contiguous from the number of users, train items first
		itemIndices := mapset.NewSet[int32]()
		similarIndices := mapset.NewSet[int32]()
		for i, itemId := range append(append([]string{}, trainItems...), testItems...) {
			assert.Equal(t, int32(size+i), index.ItemIndex(itemId))
			itemIndices.Add(index.ItemIndex(itemId))
			similarIndices.Add(index.SimilarItemIndex(itemId))
		}
		assert.Equal(t, len(users), userIndices.Cardinality())
		assert.Equal(t, len(trainItems)+len(testItems), itemIndices.Cardinality())
		assert.Equal(t, len(trainItems)+len(testItems), similarIndices.Cardinality())
		assert.True(t, userIndices.Intersect(itemIndices).IsEmpty())
		assert.True(t, userIndices.Intersect(similarIndices).IsEmpty())
		assert.True(t, itemIndices.Intersect(similarIndices).IsEmpty())
	}
}
