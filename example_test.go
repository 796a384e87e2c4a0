/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package gomarc_test

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nlnwa/gomarc"
)

const record = "00233nam a2200073   4500" +
	"001000900000020001800009020001500027245011700042\x1e" +
	"15434749\x1e" +
	"  \x1fa9780385527880\x1e" +
	"  \x1fa0385527888\x1e" +
	"10\x1faIn the land of invented languages :" +
	"\x1fban adventure in linguistic creativity, madness, and genius /" +
	"\x1fcArika Okrent.\x1e\x1d"

func ExampleDecode() {
	r, validation, err := gomarc.Decode([]byte(record))
	if err != nil {
		panic(err)
	}
	fmt.Println(validation.Valid())
	fmt.Print(r.Text())
	// Output:
	// true
	// LDR 00233nam a2200073   4500
	// 001    15434749
	// 020    $a9780385527880
	// 020    $a0385527888
	// 245 10 $aIn the land of invented languages :$ban adventure in linguistic creativity, madness, and genius /$cArika Okrent.
}

func ExampleRecord_ContentWith() {
	r, _, err := gomarc.Decode([]byte(record))
	if err != nil {
		panic(err)
	}
	for _, p := range []string{"001", "020$a", "245$a"} {
		path, err := gomarc.ParseFieldPath(p)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s: %q %v\n", path, r.ContentWith(path), r.IndexPaths(path))
	}
	// Output:
	// 001: ["15434749"] [[0]]
	// 020$a: ["9780385527880" "0385527888"] [[1.0] [2.0]]
	// 245$a: ["In the land of invented languages :"] [[3.0]]
}

func ExampleEncode() {
	r := gomarc.NewRecord(gomarc.AuthorityData,
		gomarc.MustControlField(gomarc.ControlNumberTag, "n79021164"),
		gomarc.MustDataField("100", '1', gomarc.Blank, gomarc.Subfield{Code: "a", Content: "Okrent, Arika."}),
	)
	r.Leader.SetEncodingLevel(gomarc.CompleteLevel)

	b, err := gomarc.Encode(r)
	if err != nil {
		panic(err)
	}
	fmt.Println(strings.NewReplacer("\x1e", "^", "\x1f", "$", "\x1d", "\\").Replace(string(b)))
	// Output: 00079nz  a2200049n  4500001001000000100001900010^n79021164^1 $aOkrent, Arika.^\
}

func ExampleUnmarshaler() {
	input := bufio.NewReader(strings.NewReader(record + "\n" + record))
	u := gomarc.NewUnmarshaler()
	for {
		r, skipped, validation, err := u.Unmarshal(input)
		if err != nil {
			break
		}
		fmt.Printf("skipped: %d, %s\n", skipped, r)
		fmt.Print(validation)
	}
	// Output:
	// skipped: 0, MARC record: kind: language material, status: n, control number: 15434749, fields: 4
	// skipped: 1, MARC record: kind: language material, status: n, control number: 15434749, fields: 4
	// gomarc: Validation errors:
	//   1: gomarc: invalid leader: expected start of record, but found 1 bytes of junk
}

func ExampleXMLEncoder() {
	r := gomarc.NewRecord(gomarc.AuthorityData,
		gomarc.MustControlField(gomarc.ControlNumberTag, "n79021164"),
		gomarc.MustDataField("100", '1', gomarc.Blank, gomarc.Subfield{Code: "a", Content: "Okrent, Arika."}),
	)
	enc := gomarc.NewXMLEncoder(os.Stdout)
	if err := enc.Encode(r); err != nil {
		panic(err)
	}
	if err := enc.Close(); err != nil {
		panic(err)
	}
	// Output:
	// <?xml version="1.0" encoding="UTF-8"?>
	// <collection xmlns="http://www.loc.gov/MARC21/slim">
	//   <record>
	//     <leader>00000nz  a2200000   4500</leader>
	//     <controlfield tag="001">n79021164</controlfield>
	//     <datafield tag="100" ind1="1" ind2=" ">
	//       <subfield code="a">Okrent, Arika.</subfield>
	//     </datafield>
	//   </record>
	// </collection>
}

func ExampleDecodeAll() {
	records, err := gomarc.DecodeAll(context.Background(), []byte(record+record+record), gomarc.WithWorkers(2))
	if err != nil {
		panic(err)
	}
	fmt.Println(len(records), records[2].ControlNumber())
	// Output: 3 15434749
}
