package view

import (
	"fmt"
	"strconv"

	"github.com/DawnFalls/getSuitedV1/internal/models"
)

// DefaultAvatar is rendered whenever the identity has no picture URL.
const DefaultAvatar = "/default-avatar.png"

// Row is one (label, value) pair for the data-box widget. Link is non-empty
// when the value renders as a link affordance.
type Row struct {
	Label string
	Value string
	Link  string
}

// Box is the display-ready input for the data-box widget: a header, ordered
// rows and an optional footer link.
type Box struct {
	Header     string
	Rows       []Row
	FooterText string
	FooterLink string
}

// NavSummary is the read-only identity summary consumed by the navigation
// surface. SignedIn false means "render the Sign In affordance".
type NavSummary struct {
	SignedIn  bool
	Name      string
	AvatarURL string
}

// Everything below is pure derivation from Identity and the evaluation
// collection; identical inputs always yield identical output.

// Nav derives the navigation summary. A nil user is the signed-out state.
func Nav(u *models.User) NavSummary {
	if u == nil {
		return NavSummary{}
	}
	avatar := u.PictureURL()
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return NavSummary{SignedIn: true, Name: u.Name, AvatarURL: avatar}
}

// Avatar returns the picture URL to render for the profile page.
func Avatar(u *models.User) string {
	if u == nil || u.PictureURL() == "" {
		return DefaultAvatar
	}
	return u.PictureURL()
}

// Progress derives the progress box. Score defaults to 0 when the identity
// is absent.
func Progress(u *models.User) Box {
	var score float64
	if u != nil {
		score = u.Score
	}
	return Box{
		Header:     "Your Progress",
		Rows:       []Row{{Label: "Score", Value: formatScore(score)}},
		FooterText: "View More",
		FooterLink: "/progress",
	}
}

// Evaluations derives the reports box: one row per artifact in server order,
// labelled by file name or 1-based position, or a single placeholder row
// when there are none.
func Evaluations(evals []models.Evaluation) Box {
	box := Box{
		Header:     "Evaluation Reports",
		FooterText: "Upload More",
		FooterLink: "/interview",
	}
	if len(evals) == 0 {
		box.Rows = []Row{{Label: "No reports yet", Value: "-"}}
		return box
	}
	rows := make([]Row, 0, len(evals))
	for i, e := range evals {
		label := fmt.Sprintf("Evaluation %d", i+1)
		if e.FileName != nil && *e.FileName != "" {
			label = *e.FileName
		}
		rows = append(rows, Row{Label: label, Value: "View", Link: e.FileURL})
	}
	box.Rows = rows
	return box
}

// Interviews derives the completed-interview count box.
func Interviews(evals []models.Evaluation) Box {
	return Box{
		Header:     "Interviews",
		Rows:       []Row{{Label: "Completed", Value: strconv.Itoa(len(evals))}},
		FooterText: "View Interviews",
		FooterLink: "/interview",
	}
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
