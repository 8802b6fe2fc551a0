package api

import (
	"github.com/willfx/sitegeist/app/database"
	"github.com/willfx/sitegeist/app/source"
	"github.com/willfx/sitegeist/app/subjects"
)

type Handler struct {
	service     *subjects.Service
	postRepo    database.PostRepository
	subjectRepo database.SubjectRepository
	summaryRepo database.SummaryRepository
	fence       source.Geofence
	trendHours  int
	version     string
}
