package types

// JobSummary is a single entry of the job listing. Immutable once fetched.
type JobSummary struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Rating          float64 `json:"rating"`
	Location        string  `json:"location"`
	EmploymentType  string  `json:"employmentType"`
	PackagePerAnnum string  `json:"packagePerAnnum"`
	JobDescription  string  `json:"jobDescription"`
	CompanyLogoURL  string  `json:"companyLogoUrl"`
}

// Skill is a named skill with an icon.
type Skill struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// LifeAtCompany describes the company culture section of a job.
type LifeAtCompany struct {
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// JobDetail is the full job record shown on the detail screen, with its similar jobs.
type JobDetail struct {
	JobSummary
	CompanyWebsiteURL string        `json:"companyWebsiteUrl"`
	Skills            []Skill       `json:"skills"`
	LifeAtCompany     LifeAtCompany `json:"lifeAtCompany"`
	SimilarJobs       []JobSummary  `json:"similarJobs"`
}

// Profile is the signed-in user's profile card.
type Profile struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl"`
	ShortBio        string `json:"shortBio"`
}
