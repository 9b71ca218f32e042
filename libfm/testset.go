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

// UnknownTarget fills the target column of test examples.
const UnknownTarget = -1.0

// BuildTestSet creates an example for every user and every test item, users
// major and both in index order.
func BuildTestSet(index *Index, similarItems map[string][]Feature) []Example {
	testItems := index.TestItems()
	examples := make([]Example, 0, int(index.NumUsers)*len(testItems))
	for userIndex, userId := range index.Users.GetNames() {
		for _, item := range testItems {
			examples = append(examples, Example{
				UserId:       userId,
				ItemId:       item.ItemId,
				Target:       UnknownTarget,
				UserIndex:    int32(userIndex),
				ItemIndex:    item.ItemIndex,
				SimilarItems: similarItems[userId],
			})
		}
	}
	return examples
}
