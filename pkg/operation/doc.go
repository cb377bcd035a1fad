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
Package operation composes listing, matching and fetching into the runs boxsync performs.

	+-----------+     +-----------+     +-----------+
	|  listing  | --> |   match   | --> |   fetch   |
	| (entries) |     | (filter)  |     | (workers) |
	+-----------+     +-----------+     +-----+-----+
	                                          |
	                                    +-----+-----+
	                                    |   cache   |
	                                    |   (dir)   |
	                                    +-----------+

🎯 Purpose:
- Lists one or more folders and keeps the files whose names match a pattern
- Hands the surviving identifiers to the worker pool
- Prints one line per download and collects a Report per run

🔄 Flow:
1. listing.ListFolders enumerates every page of each folder
2. match.Matcher drops the names that do not qualify
3. fetch.DownloadAll writes the rest under the cache directory
4. Reports are turned into the summary table by the caller

Components only ever pass entry and identifier lists to each other.
A listing failure aborts the run it belongs to; download failures are
recorded in the Report and never stop sibling downloads.
*/
package operation
