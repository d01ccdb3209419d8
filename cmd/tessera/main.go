// Tessera - photomosaics from texture libraries
//
// Tessera reduces every texture in a library to its dominant colour and
// rebuilds images from the textures that match each pixel most closely.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"github.com/jmylchreest/tessera/internal/cli"
)

func main() {
	cli.Execute()
}
