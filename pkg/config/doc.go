// Copyright 2025 walteh LLC
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

/*
Package config loads the boxsync configuration file.

	            +-------------+
	            |   Config    |
	            |  (+ Jobs)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Picks a parser from the file extension
- Rejects unknown keys
- Fills in defaults and validates values in one place (Config.Validate)
- Turns the selected provider block into remote.Settings

🔍 Example (YAML):

	provider: box
	cache_dir: ./boxsync_cache
	concurrency: 20
	throttle: 100ms
	box:
	  settings_file: ~/BoxApp.json
	  as_user: Data Robot
	jobs:
	  - name: weekly
	    folders: ["12345"]
	    pattern: "report 2024"
	    exclude: "draft"
	    destination: reports

The same file in HCL, where env.NAME reads the environment:

	provider = "github"
	github {
	  token = env.GITHUB_TOKEN
	}
	job "docs" {
	  folders = ["walteh/copyrc/docs@main"]
	}
*/
package config
