package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Post source configuration
	Geofence       string
	GeofenceCoords [4]float64
	StreamURL      string
	LookupURL      string
	StreamToken    string

	// Annotation configuration
	AnnotatorURL     string
	AnnotatorTimeout int
	AnnotatorRules   string

	// Application configuration
	Port              string
	WorkerCount       int
	TrendHours        int
	PurgeAfterArchive bool
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
