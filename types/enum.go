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

package types

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// EnableFlag is the small-integer switch stored in the user.enable column.
type EnableFlag int8

const (
	Disabled EnableFlag = 0
	Enabled  EnableFlag = 1
)

var _ BaseEnum = EnableFlag(0)

func (e EnableFlag) IsValid() bool {
	return e == Disabled || e == Enabled
}

func (e EnableFlag) Number() int {
	if !e.IsValid() {
		return IllegalValue
	}
	return int(e)
}

// Int8 returns the column value.
func (e EnableFlag) Int8() int8 { return int8(e) }

func (e EnableFlag) String() string { return e.Name() }

func (e EnableFlag) Name() string {
	switch e {
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	default:
		return IllegalName
	}
}

func (e EnableFlag) Desc() string {
	switch e {
	case Disabled:
		return "account may not sign in"
	case Enabled:
		return "account may sign in"
	default:
		return IllegalDesc
	}
}
