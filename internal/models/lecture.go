package models

// Lecture is a catalog record as served by the catalog sources. Lectures are
// loaded once per process and shared by pointer; nothing mutates them.
type Lecture struct {
	ID       string `db:"id" json:"id" yaml:"id"`
	Title    string `db:"title" json:"title" yaml:"title"`
	Credits  string `db:"credits" json:"credits" yaml:"credits"`
	Major    string `db:"major" json:"major" yaml:"major"`
	Schedule string `db:"schedule" json:"schedule" yaml:"schedule"`
	Grade    int    `db:"grade" json:"grade" yaml:"grade"`
}

// CatalogSource identifies one of the catalog endpoints.
type CatalogSource string

const (
	CatalogSourceMajors      CatalogSource = "majors"
	CatalogSourceLiberalArts CatalogSource = "liberal-arts"
)

// CatalogSources lists the sources in the order their results are merged.
var CatalogSources = []CatalogSource{CatalogSourceMajors, CatalogSourceLiberalArts}
