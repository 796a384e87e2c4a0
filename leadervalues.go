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

package gomarc

import "fmt"

// RecordKind is the type of record, stored at position 06 of the leader.
type RecordKind byte

// Record kinds of the bibliographic format
const (
	LanguageMaterial                    RecordKind = 'a'
	NotatedMusic                        RecordKind = 'c'
	ManuscriptNotatedMusic              RecordKind = 'd'
	CartographicMaterial                RecordKind = 'e'
	ManuscriptCartographicMaterial      RecordKind = 'f'
	ProjectedMedium                     RecordKind = 'g'
	NonMusicalSoundRecording            RecordKind = 'i'
	MusicalSoundRecording               RecordKind = 'j'
	TwoDimensionalNonProjectableGraphic RecordKind = 'k'
	ComputerFile                        RecordKind = 'm'
	Kit                                 RecordKind = 'o'
	MixedMaterials                      RecordKind = 'p'
	ThreeDimensionalArtifact            RecordKind = 'r'
	ManuscriptLanguageMaterial          RecordKind = 't'
)

// Record kinds of the other formats
const (
	CommunityInformation   RecordKind = 'q'
	UnknownHoldings        RecordKind = 'u'
	MultipartItemHoldings  RecordKind = 'v'
	Classification         RecordKind = 'w'
	SinglePartItemHoldings RecordKind = 'x'
	SerialItemHoldings     RecordKind = 'y'
	AuthorityData          RecordKind = 'z'
)

var recordKindNames = map[RecordKind]string{
	LanguageMaterial:                    "language material",
	NotatedMusic:                        "notated music",
	ManuscriptNotatedMusic:              "manuscript notated music",
	CartographicMaterial:                "cartographic material",
	ManuscriptCartographicMaterial:      "manuscript cartographic material",
	ProjectedMedium:                     "projected medium",
	NonMusicalSoundRecording:            "nonmusical sound recording",
	MusicalSoundRecording:               "musical sound recording",
	TwoDimensionalNonProjectableGraphic: "two-dimensional nonprojectable graphic",
	ComputerFile:                        "computer file",
	Kit:                                 "kit",
	MixedMaterials:                      "mixed materials",
	ThreeDimensionalArtifact:            "three-dimensional artifact",
	ManuscriptLanguageMaterial:          "manuscript language material",
	CommunityInformation:                "community information",
	UnknownHoldings:                     "unknown holdings",
	MultipartItemHoldings:               "multipart item holdings",
	Classification:                      "classification data",
	SinglePartItemHoldings:              "single-part item holdings",
	SerialItemHoldings:                  "serial item holdings",
	AuthorityData:                       "authority data",
}

// IsValid returns true if k is one of the record kinds defined by MARC 21.
func (k RecordKind) IsValid() bool {
	_, ok := recordKindNames[k]
	return ok
}

// Format returns the MARC 21 format the record kind belongs to.
// An unrecognized kind returns UnknownFormat.
func (k RecordKind) Format() RecordFormat {
	switch k {
	case LanguageMaterial, NotatedMusic, ManuscriptNotatedMusic, CartographicMaterial, ManuscriptCartographicMaterial,
		ProjectedMedium, NonMusicalSoundRecording, MusicalSoundRecording, TwoDimensionalNonProjectableGraphic,
		ComputerFile, Kit, MixedMaterials, ThreeDimensionalArtifact, ManuscriptLanguageMaterial:
		return BibliographicFormat
	case CommunityInformation:
		return CommunityFormat
	case UnknownHoldings, MultipartItemHoldings, SinglePartItemHoldings, SerialItemHoldings:
		return HoldingsFormat
	case Classification:
		return ClassificationFormat
	case AuthorityData:
		return AuthorityFormat
	}
	return UnknownFormat
}

func (k RecordKind) IsBibliographic() bool  { return k.Format() == BibliographicFormat }
func (k RecordKind) IsCommunity() bool      { return k.Format() == CommunityFormat }
func (k RecordKind) IsHoldings() bool       { return k.Format() == HoldingsFormat }
func (k RecordKind) IsClassification() bool { return k.Format() == ClassificationFormat }
func (k RecordKind) IsAuthority() bool      { return k.Format() == AuthorityFormat }

func (k RecordKind) String() string {
	if n, ok := recordKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("unknown record kind (%#x)", byte(k))
}

// RecordFormat is the MARC 21 format a record kind belongs to.
type RecordFormat uint8

const (
	UnknownFormat RecordFormat = iota
	BibliographicFormat
	AuthorityFormat
	HoldingsFormat
	ClassificationFormat
	CommunityFormat
)

func (f RecordFormat) String() string {
	switch f {
	case BibliographicFormat:
		return "bibliographic"
	case AuthorityFormat:
		return "authority"
	case HoldingsFormat:
		return "holdings"
	case ClassificationFormat:
		return "classification"
	case CommunityFormat:
		return "community"
	}
	return "unknown"
}

// RecordStatus is the status of a record, stored at position 05 of the leader.
// Unrecognized values are kept as is.
type RecordStatus byte

const (
	StatusIncreaseInEncodingLevel    RecordStatus = 'a'
	StatusRevised                    RecordStatus = 'c'
	StatusDeleted                    RecordStatus = 'd'
	StatusNew                        RecordStatus = 'n'
	StatusObsolete                   RecordStatus = 'o'
	StatusIncreaseFromPrepublication RecordStatus = 'p'
	StatusDeletedSplittingHeading    RecordStatus = 's'
	StatusDeletedReplacingHeading    RecordStatus = 'x'
)

func (s RecordStatus) String() string {
	switch s {
	case StatusIncreaseInEncodingLevel:
		return "increase in encoding level"
	case StatusRevised:
		return "corrected or revised"
	case StatusDeleted:
		return "deleted"
	case StatusNew:
		return "new"
	case StatusObsolete:
		return "obsolete"
	case StatusIncreaseFromPrepublication:
		return "increase in encoding level from prepublication"
	case StatusDeletedSplittingHeading:
		return "deleted; heading split into two or more headings"
	case StatusDeletedReplacingHeading:
		return "deleted; heading replaced by another heading"
	}
	return string(rune(s))
}

// Encoding is the character coding scheme of the record content, stored at position 09 of the leader.
type Encoding byte

const (
	MARC8 Encoding = ' '
	UTF8  Encoding = 'a'
)

func (e Encoding) String() string {
	switch e {
	case MARC8:
		return "MARC-8"
	case UTF8:
		return "UTF-8"
	}
	return fmt.Sprintf("unknown encoding (%q)", rune(e))
}

// BibliographicLevel is stored at position 07 of the leader of bibliographic records.
type BibliographicLevel byte

const (
	MonographicComponentPart BibliographicLevel = 'a'
	SerialComponentPart      BibliographicLevel = 'b'
	Collection               BibliographicLevel = 'c'
	Subunit                  BibliographicLevel = 'd'
	IntegratingResource      BibliographicLevel = 'i'
	Monograph                BibliographicLevel = 'm'
	Serial                   BibliographicLevel = 's'
)

// BibliographicControlType is stored at position 08 of the leader of bibliographic records.
type BibliographicControlType byte

const (
	NoControlType       BibliographicControlType = ' '
	ArchivalControlType BibliographicControlType = 'a'
)

// EncodingLevel is stored at position 17 of the leader. Its values depend on the record format.
type EncodingLevel byte

// Encoding levels of the bibliographic format
const (
	FullLevel                            EncodingLevel = ' '
	FullLevelMaterialNotExamined         EncodingLevel = '1'
	LessThanFullLevelMaterialNotExamined EncodingLevel = '2'
	AbbreviatedLevel                     EncodingLevel = '3'
	CoreLevel                            EncodingLevel = '4'
	PartialLevel                         EncodingLevel = '5'
	MinimalLevel                         EncodingLevel = '7'
	PrepublicationLevel                  EncodingLevel = '8'
	UnknownLevel                         EncodingLevel = 'u'
	NotApplicableLevel                   EncodingLevel = 'z'
)

// Encoding levels of the authority and classification formats
const (
	CompleteLevel   EncodingLevel = 'n'
	IncompleteLevel EncodingLevel = 'o'
)

// Encoding levels of the holdings format
const (
	HoldingsLevel1                     EncodingLevel = '1'
	HoldingsLevel2                     EncodingLevel = '2'
	HoldingsLevel3                     EncodingLevel = '3'
	HoldingsLevel4                     EncodingLevel = '4'
	HoldingsLevel4WithPieceDesignation EncodingLevel = '5'
	HoldingsMixedLevel                 EncodingLevel = 'm'
	HoldingsUnknownLevel               EncodingLevel = 'u'
	HoldingsOtherLevel                 EncodingLevel = 'z'
)

// DescriptiveCatalogingForm is stored at position 18 of the leader of bibliographic records.
type DescriptiveCatalogingForm byte

const (
	NonISBD                   DescriptiveCatalogingForm = ' '
	AACR2                     DescriptiveCatalogingForm = 'a'
	ISBDPunctuationOmitted    DescriptiveCatalogingForm = 'c'
	ISBDPunctuationIncluded   DescriptiveCatalogingForm = 'i'
	NonISBDPunctuationOmitted DescriptiveCatalogingForm = 'n'
	UnknownCatalogingForm     DescriptiveCatalogingForm = 'u'
)

// MultipartResourceRecordLevel is stored at position 19 of the leader of bibliographic records.
type MultipartResourceRecordLevel byte

const (
	MultipartNotSpecified             MultipartResourceRecordLevel = ' '
	MultipartSet                      MultipartResourceRecordLevel = 'a'
	MultipartPartWithIndependentTitle MultipartResourceRecordLevel = 'b'
	MultipartPartWithDependentTitle   MultipartResourceRecordLevel = 'c'
)
