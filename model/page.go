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

package model

const (
	DefaultPageNo   = 1
	DefaultPageSize = 10
)

// PageRequest filters and paginates users. Every field is optional: a nil
// filter places no constraint, a nil or non-positive page value falls back to
// its default.
type PageRequest struct {
	PageNo   *int    `json:"pageNo,omitempty"`
	PageSize *int    `json:"pageSize,omitempty"`
	Username *string `json:"username,omitempty"`
	Enable   *int8   `json:"enable,omitempty"`
}

// NewPageRequest returns a request for the given page with no filters.
func NewPageRequest(pageNo, pageSize int) *PageRequest {
	return &PageRequest{PageNo: &pageNo, PageSize: &pageSize}
}

// WithUsername adds a username substring filter.
func (p *PageRequest) WithUsername(username string) *PageRequest {
	p.Username = &username
	return p
}

// WithEnable adds an enable flag filter.
func (p *PageRequest) WithEnable(enable int8) *PageRequest {
	p.Enable = &enable
	return p
}

func (p *PageRequest) Page() int {
	if p == nil || p.PageNo == nil || *p.PageNo < 1 {
		return DefaultPageNo
	}
	return *p.PageNo
}

// Limit is the effective page size.
func (p *PageRequest) Limit() int {
	if p == nil || p.PageSize == nil || *p.PageSize < 1 {
		return DefaultPageSize
	}
	return *p.PageSize
}

// Offset is the number of rows skipped before the requested page.
func (p *PageRequest) Offset() int {
	return (p.Page() - 1) * p.Limit()
}

// HasFilter reports whether any WHERE condition applies.
func (p *PageRequest) HasFilter() bool {
	return p != nil && (p.Username != nil || p.Enable != nil)
}
