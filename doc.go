// Package asciitab reads and writes schema-annotated ASCII tables and the
// flat key/value configuration files that accompany them.
//
// A table file declares its columns in "#<" header lines and carries one
// whitespace-separated record per line:
//
//	##  This is a comment at the top of the file.
//	#<  col_1                    int32
//	#<  col_2                    float32
//	#<  col_3                    float32
//	#<  col_4                    U20
//	1       3.14159         2.71828         Feynman
//	2       2.71828         3.14159         Jefferson
//	##  Here is another comment randomly in the file.
//	3       3.14159         2.71828         Beethoven
//
// Rows that do not match the declared schema are dropped and counted rather
// than failing the whole read.
//
// # Quick Start
//
// Read a table, add a column and write it back compressed:
//
//	import (
//	    "github.com/ajitpratap0/asciitab/pkg/codec"
//	    "github.com/ajitpratap0/asciitab/pkg/record"
//	    "github.com/ajitpratap0/asciitab/pkg/schema"
//	)
//
//	res, err := codec.ReadFile("stars.txt")
//	if err != nil {
//	    return err
//	}
//
//	flux, _ := schema.NewField("flux", "float32")
//	t, err := record.AddColumn(res.Table, flux, nil, record.After("mag"))
//	if err != nil {
//	    return err
//	}
//	return codec.WriteFile("stars.txt.zst", t, codec.DefaultLayout())
//
// # Key Packages
//
//	pkg/schema      - Column types, schemas and the "#<" header block
//	pkg/tokenizer   - Splits a file into comments, header and body tokens
//	pkg/record      - Records, tables and column insertion
//	pkg/codec       - Row decoding and fixed-layout encoding, file I/O
//	pkg/cfgfile     - Ordered key/value configuration files
//	pkg/formats     - JSON, JSON Lines, Arrow IPC and Avro export
//	pkg/compression - Transparent gzip, zstd, lz4 and snappy streams
//	pkg/config      - Tool settings loaded from YAML and ASCIITAB_* variables
//	pkg/errors      - Structured error handling
//	pkg/logger      - Structured logging
//	pkg/metrics     - Prometheus counters for rows and lines
//
// # Command Line
//
// The asciitab command wraps the packages above:
//
//	asciitab cat stars.txt
//	asciitab schema stars.txt
//	asciitab add-column stars.txt --name flux --type float32 --after mag -o out.txt
//	asciitab convert stars.txt -o stars.arrow
//	asciitab config get run.cfg threshold
//	asciitab settings init asciitab.yaml
package asciitab
