package models

import (
	"regexp"
	"strings"
)

const (
	LevelBeginner = "Beginner"

	SegmentCore = "core"
)

type Course struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Duration    string `bson:"duration" json:"duration"`
	Level       string `bson:"level" json:"level" validate:"oneof=Beginner Intermediate Advanced"`
}

type Resource struct {
	Title       string `bson:"title" json:"title"`
	Type        string `bson:"type" json:"type" validate:"required,oneof=book website video article tool course"`
	URL         string `bson:"url" json:"url"`
	Description string `bson:"description" json:"description"`
}

type DetailedInfo struct {
	Overview         string     `bson:"overview" json:"overview"`
	Objectives       []string   `bson:"objectives" json:"objectives"`
	Prerequisites    []string   `bson:"prerequisites" json:"prerequisites"`
	LearningOutcomes []string   `bson:"learningOutcomes" json:"learningOutcomes"`
	RelatedCourses   []Course   `bson:"relatedCourses" json:"relatedCourses" validate:"dive"`
	Resources        []Resource `bson:"resources" json:"resources" validate:"dive"`
}

type Statistics struct {
	EnrolledMembers   int `bson:"enrolledMembers" json:"enrolledMembers"`
	CompletedProjects int `bson:"completedProjects" json:"completedProjects"`
	ActiveProjects    int `bson:"activeProjects" json:"activeProjects"`
}

type SegmentMetadata struct {
	CreatedBy string   `bson:"createdBy" json:"createdBy"`
	UpdatedBy string   `bson:"updatedBy" json:"updatedBy"`
	Category  string   `bson:"category" json:"category" validate:"oneof=core specialized workshop seminar"`
	Tags      []string `bson:"tags" json:"tags"`
}

// Segment is a program track. Slug is unique and derived from Title on creation
// when the caller leaves it empty.
type Segment struct {
	Base         `bson:",inline"`
	Title        string          `bson:"title" json:"title" validate:"required"`
	Description  string          `bson:"description" json:"description" validate:"required"`
	Icon         string          `bson:"icon" json:"icon" validate:"required,oneof=FaFlask FaCode FaRocket FaBookOpen FaLightbulb FaCog FaBrain FaGraduationCap"`
	AccentColor  string          `bson:"accentColor" json:"accentColor" validate:"required"`
	Features     []string        `bson:"features" json:"features" validate:"dive,required"`
	IsActive     bool            `bson:"isActive" json:"isActive"`
	Order        int             `bson:"order" json:"order"`
	Slug         string          `bson:"slug" json:"slug" validate:"required"`
	DetailedInfo DetailedInfo    `bson:"detailedInfo" json:"detailedInfo"`
	Statistics   Statistics      `bson:"statistics" json:"statistics"`
	Metadata     SegmentMetadata `bson:"metadata" json:"metadata"`
}

func NewSegment() *Segment {
	return &Segment{
		Icon:        "FaRocket",
		AccentColor: "bg-blue-500",
		Features:    []string{},
		IsActive:    true,
		DetailedInfo: DetailedInfo{
			Objectives:       []string{},
			Prerequisites:    []string{},
			LearningOutcomes: []string{},
			RelatedCourses:   []Course{},
			Resources:        []Resource{},
		},
		Metadata: SegmentMetadata{
			Category: SegmentCore,
			Tags:     []string{},
		},
	}
}

// NewCourse returns a course carrying the schema default level.
func NewCourse() *Course {
	return &Course{Level: LevelBeginner}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and collapses every run of characters outside [a-z0-9]
// into a single hyphen.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// PrepareSlug lower-cases a caller supplied slug, or derives one from the title
// when none was given. It never replaces an existing slug.
func (s *Segment) PrepareSlug() {
	s.Slug = strings.ToLower(strings.TrimSpace(s.Slug))
	if s.Slug == "" && s.Title != "" {
		s.Slug = Slugify(s.Title)
	}
}

// FillCourseLevels gives courses sent without a level the default one.
func (s *Segment) FillCourseLevels() {
	for i := range s.DetailedInfo.RelatedCourses {
		if s.DetailedInfo.RelatedCourses[i].Level == "" {
			s.DetailedInfo.RelatedCourses[i].Level = LevelBeginner
		}
	}
}

// SegmentSummary is the list view of a segment: the heavy course and resource
// lists are left out.
type SegmentSummary struct {
	Base
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Icon         string          `json:"icon"`
	AccentColor  string          `json:"accentColor"`
	Features     []string        `json:"features"`
	IsActive     bool            `json:"isActive"`
	Order        int             `json:"order"`
	Slug         string          `json:"slug"`
	DetailedInfo SegmentOverview `json:"detailedInfo"`
	Statistics   Statistics      `json:"statistics"`
	Metadata     SegmentMetadata `json:"metadata"`
}

type SegmentOverview struct {
	Overview         string   `json:"overview"`
	Objectives       []string `json:"objectives"`
	Prerequisites    []string `json:"prerequisites"`
	LearningOutcomes []string `json:"learningOutcomes"`
}

func (s *Segment) Summary() SegmentSummary {
	return SegmentSummary{
		Base:        s.Base,
		Title:       s.Title,
		Description: s.Description,
		Icon:        s.Icon,
		AccentColor: s.AccentColor,
		Features:    s.Features,
		IsActive:    s.IsActive,
		Order:       s.Order,
		Slug:        s.Slug,
		DetailedInfo: SegmentOverview{
			Overview:         s.DetailedInfo.Overview,
			Objectives:       s.DetailedInfo.Objectives,
			Prerequisites:    s.DetailedInfo.Prerequisites,
			LearningOutcomes: s.DetailedInfo.LearningOutcomes,
		},
		Statistics: s.Statistics,
		Metadata:   s.Metadata,
	}
}

// Stamp records subject as the author of this write.
func (s *Segment) Stamp(subject string, creating bool) {
	if creating {
		s.Metadata.CreatedBy = subject
	}
	s.Metadata.UpdatedBy = subject
}
