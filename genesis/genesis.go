// Package genesis provides the well-known identifiers of the Genesis Space:
// core properties, types, relation types and languages, all derived
// deterministically so every implementation agrees on them without a
// registry.
package genesis

import (
	"github.com/geobrowser/grc-20-go/model"
)

// GenesisID derives a well-known id from a name:
// DerivedID("grc20:genesis:" + name).
func GenesisID(name string) model.ID {
	return model.DerivedID([]byte("grc20:genesis:" + name))
}

// LanguageID derives a language id from an ISO 639-1 code:
// DerivedID("grc20:genesis:language:" + code).
func LanguageID(code string) model.ID {
	return model.DerivedID([]byte("grc20:genesis:language:" + code))
}

// Core properties.
var (
	// PropertyName is the primary label of an object (Text).
	PropertyName = GenesisID("Name")
	// PropertyDescription is a summary text (Text).
	PropertyDescription = GenesisID("Description")
	// PropertyAvatar is an image URL (Text).
	PropertyAvatar = GenesisID("Avatar")
	// PropertyURL is an external link (Text).
	PropertyURL = GenesisID("URL")
	// PropertyCreated is the creation time (Timestamp).
	PropertyCreated = GenesisID("Created")
	// PropertyModified is the last modification time (Timestamp).
	PropertyModified = GenesisID("Modified")
)

// Core types.
var (
	TypePerson       = GenesisID("Person")
	TypeOrganization = GenesisID("Organization")
	TypePlace        = GenesisID("Place")
	TypeTopic        = GenesisID("Topic")
)

// Core relation types.
var (
	// RelationTypes assigns types to an entity.
	RelationTypes = GenesisID("Types")
	// RelationPartOf expresses containment.
	RelationPartOf = GenesisID("PartOf")
	// RelationRelatedTo is an untyped association.
	RelationRelatedTo = GenesisID("RelatedTo")
)

// Common languages.
var (
	LanguageEnglish    = LanguageID("en")
	LanguageSpanish    = LanguageID("es")
	LanguageFrench     = LanguageID("fr")
	LanguageGerman     = LanguageID("de")
	LanguageChinese    = LanguageID("zh")
	LanguageJapanese   = LanguageID("ja")
	LanguageKorean     = LanguageID("ko")
	LanguagePortuguese = LanguageID("pt")
	LanguageItalian    = LanguageID("it")
	LanguageRussian    = LanguageID("ru")
	LanguageArabic     = LanguageID("ar")
	LanguageHindi      = LanguageID("hi")
)
