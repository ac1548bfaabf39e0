// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cpp

import (
	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/intern"
)

// registerPredefined installs __FILE__, __LINE__, __DATE__, __TIME__ (§4.5.6).
// Each is marked Predefined so the expander computes its expansion at use
// time via expand.Expander.expandPredefined rather than substituting a
// fixed body.
func registerPredefined(tab *intern.Table, macros *macro.Table) {
	def := func(name string, kind macro.PredefinedKind) {
		macros.Define(&macro.Def{
			Name:           tab.Add(name),
			Predefined:     true,
			PredefinedKind: kind,
		})
	}
	def("__FILE__", macro.PredefinedFile)
	def("__LINE__", macro.PredefinedLine)
	def("__DATE__", macro.PredefinedDate)
	def("__TIME__", macro.PredefinedTime)
}
