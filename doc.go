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

/*
Package gomarc allows parsing, creating and addressing MARC 21 records.

# MARC 21

MARC 21 is a family of formats for bibliographic, authority, holdings, classification and community information.
Records are exchanged in the ISO 2709 structure: a 24 byte leader, a directory with one entry per field and
the field data, each field ended by a field terminator and the record ended by a record terminator.

To learn more about the format, read the specification at https://www.loc.gov/marc/specifications/

# Create records

A [Record] is created with [NewRecord]. Fields are created with [NewControlField] and [NewDataField], which make sure
that control tags (001-009) always hold a value and data tags always hold indicators and subfields.

[Encode] serializes a record. The [MarcFileWriter] is used to write MARC files. It is initialized with [NewMarcFileWriter].

# Parse records

[Decode] parses a single record. The [Unmarshaler] reads records from a stream and the [MarcFileReader] reads
records from files. [DecodeBatch] decodes a buffer with many records in parallel.

MARCXML is read with [XMLDecoder] and written with [XMLEncoder].

# Addressing

Fields and subfields are addressed with an [IndexPath]. A [FieldPath] like 245$a is resolved to index paths with
[Record.IndexPaths] and to content with [Record.ContentWith].

# Validation

What is validated and how validation errors are handled can be controlled by setting the appropriate options
when creating the [Decoder], [Unmarshaler] or [MarcFileReader].
*/
package gomarc
