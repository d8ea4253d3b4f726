/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"sort"
	"sync"
)

// modelRegistry collects the bun models known to the process. Connect
// registers them with every new bun.DB and Migrate creates their tables.
type modelRegistry struct {
	mu      sync.RWMutex
	entries []registeredModel
}

type registeredModel struct {
	model    interface{}
	priority int
}

var models = &modelRegistry{}

func (r *modelRegistry) add(model interface{}, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, registeredModel{model: model, priority: priority})
}

// list returns the models by ascending priority, keeping registration order
// among equal priorities.
func (r *modelRegistry) list() []interface{} {
	r.mu.RLock()
	entries := make([]registeredModel, len(r.entries))
	copy(entries, r.entries)
	r.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})
	out := make([]interface{}, len(entries))
	for i, e := range entries {
		out[i] = e.model
	}
	return out
}

// RegisterModel adds a bun model, usually a typed nil pointer such as
// (*User)(nil). Tables are created in ascending priority.
func RegisterModel(model interface{}, priority int) {
	models.add(model, priority)
}

// RegisteredModels returns the registered models in creation order.
func RegisteredModels() []interface{} {
	return models.list()
}
