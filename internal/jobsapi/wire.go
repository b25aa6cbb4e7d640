package jobsapi

import "github.com/jonathan/jobby/internal/types"

// Wire shapes of the upstream API. Keys are snake_case; everything past this
// file uses the types package.

type profileResponse struct {
	ProfileDetails struct {
		Name            string `json:"name"`
		ProfileImageURL string `json:"profile_image_url"`
		ShortBio        string `json:"short_bio"`
	} `json:"profile_details"`
}

type jobWire struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Rating          float64 `json:"rating"`
	Location        string  `json:"location"`
	EmploymentType  string  `json:"employment_type"`
	PackagePerAnnum string  `json:"package_per_annum"`
	JobDescription  string  `json:"job_description"`
	CompanyLogoURL  string  `json:"company_logo_url"`
}

type jobsResponse struct {
	Jobs  []jobWire `json:"jobs"`
	Total int       `json:"total"`
}

type imageWire struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type jobDetailsResponse struct {
	JobDetails struct {
		jobWire
		CompanyWebsiteURL string      `json:"company_website_url"`
		Skills            []imageWire `json:"skills"`
		LifeAtCompany     imageWire   `json:"life_at_company"`
	} `json:"job_details"`
	SimilarJobs []jobWire `json:"similar_jobs"`
}

type loginWire struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	JWTToken string `json:"jwt_token"`
	ErrorMsg string `json:"error_msg"`
}

type errorResponse struct {
	ErrorMsg string `json:"error_msg"`
}

func (p profileResponse) toProfile() types.Profile {
	return types.Profile{
		Name:            p.ProfileDetails.Name,
		ProfileImageURL: p.ProfileDetails.ProfileImageURL,
		ShortBio:        p.ProfileDetails.ShortBio,
	}
}

func (j jobWire) toSummary() types.JobSummary {
	return types.JobSummary{
		ID:              j.ID,
		Title:           j.Title,
		Rating:          j.Rating,
		Location:        j.Location,
		EmploymentType:  j.EmploymentType,
		PackagePerAnnum: j.PackagePerAnnum,
		JobDescription:  j.JobDescription,
		CompanyLogoURL:  j.CompanyLogoURL,
	}
}

func toSummaries(in []jobWire) []types.JobSummary {
	out := make([]types.JobSummary, 0, len(in))
	for _, j := range in {
		out = append(out, j.toSummary())
	}
	return out
}

func (d jobDetailsResponse) toDetail() types.JobDetail {
	skills := make([]types.Skill, 0, len(d.JobDetails.Skills))
	for _, s := range d.JobDetails.Skills {
		skills = append(skills, types.Skill{Name: s.Name, ImageURL: s.ImageURL})
	}
	return types.JobDetail{
		JobSummary:        d.JobDetails.toSummary(),
		CompanyWebsiteURL: d.JobDetails.CompanyWebsiteURL,
		Skills:            skills,
		LifeAtCompany: types.LifeAtCompany{
			Description: d.JobDetails.LifeAtCompany.Description,
			ImageURL:    d.JobDetails.LifeAtCompany.ImageURL,
		},
		SimilarJobs: toSummaries(d.SimilarJobs),
	}
}
