package domain

import "path/filepath"

type DataFile string

const (
	EntriesFile   DataFile = "entries.json"
	MetadataFile  DataFile = "metadata.json"
	ReleasesFile  DataFile = "releases.json"
	OverridesFile DataFile = "parent-overrides.yaml"
)

type DataPath string

// Paths holds all the file paths for one output root
type Paths struct {
	RootDir       string
	EntriesPath   DataPath
	MetadataPath  DataPath
	ReleasesPath  DataPath
	OverridesPath DataPath
}

// NewPaths creates a new Paths instance with all paths initialized
func NewPaths(rootDir string) *Paths {
	rootDir = filepath.Join(rootDir, "seadexdb")
	return &Paths{
		RootDir:       rootDir,
		EntriesPath:   makeDataPath(rootDir, EntriesFile),
		MetadataPath:  makeDataPath(rootDir, MetadataFile),
		ReleasesPath:  makeDataPath(rootDir, ReleasesFile),
		OverridesPath: makeDataPath(rootDir, OverridesFile),
	}
}

func makeDataPath(rootDir string, df DataFile) DataPath {
	return DataPath(filepath.Join(rootDir, string(df)))
}
