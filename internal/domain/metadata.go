package domain

// RelationType enumerates AniList relation edge types. Only Parent and
// Prequel drive the family hierarchy; everything else is carried through
// untouched.
type RelationType string

const (
	RelationParent      RelationType = "PARENT"
	RelationPrequel     RelationType = "PREQUEL"
	RelationSequel      RelationType = "SEQUEL"
	RelationParentStory RelationType = "PARENT_STORY"
)

// RelationEdge links a metadata record to another AniList id.
type RelationEdge struct {
	Type     RelationType `json:"type"`
	TargetID int          `json:"target"`
}

// MetadataRecord holds the per-title metadata fetched from AniList, keyed
// by AniList id. ReleaseYear 0 and Format "" mean unknown.
type MetadataRecord struct {
	AnilistID    int            `json:"alid"`
	EnglishTitle string         `json:"english,omitempty"`
	RomajiTitle  string         `json:"romaji,omitempty"`
	ReleaseYear  int            `json:"year,omitempty"`
	Format       string         `json:"format,omitempty"`
	Relations    []RelationEdge `json:"relations,omitempty"`
}
