// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// SPDX-License-Identifier: MIT

// deeplinks turns the scraped event schedule into an M3U playlist of
// deep links and a matching XMLTV guide, and optionally serves both.
//
// Usage:
//
//	deeplinks [generate] [db]   write the artifacts once (default)
//	deeplinks serve             serve the artifacts over HTTP
//	deeplinks validate -f FILE  check a config file
//	deeplinks version
//
// Exit codes: 0 on success or when there is nothing to publish, 1 on any error.
package main

import "os"

func main() {
	os.Exit(Execute(os.Args[1:]))
}
