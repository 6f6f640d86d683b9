package filtering

// AllJobTypes disables the job type filter.
const AllJobTypes = "all"

// Criteria holds user-supplied search constraints. SalaryMin and
// ExperienceLevel are accepted for compatibility with saved searches but do
// not filter anything.
type Criteria struct {
	Query           string `mapstructure:"query" json:"query"`
	Location        string `mapstructure:"location" json:"location"`
	JobType         string `mapstructure:"job-type" json:"job_type"`
	Remote          bool   `mapstructure:"remote" json:"remote"`
	SalaryMin       int    `mapstructure:"salary-min" json:"salary_min,omitempty"`
	ExperienceLevel string `mapstructure:"experience-level" json:"experience_level,omitempty"`
}

// DefaultCriteria returns criteria that impose no constraint.
func DefaultCriteria() Criteria {
	return Criteria{
		JobType:         AllJobTypes,
		ExperienceLevel: AllJobTypes,
	}
}

// Active reports whether at least one criterion constrains the result.
func (c Criteria) Active() bool {
	return c.Query != "" || c.Location != "" || jobTypeSet(c.JobType) || c.Remote
}

func jobTypeSet(jobType string) bool {
	return jobType != "" && jobType != AllJobTypes
}
