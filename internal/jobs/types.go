package jobs

type JobType string

const (
	// JobUserWelcome greets a freshly signed-up user.
	JobUserWelcome JobType = "user.welcome"

	// JobPostPublished notifies about a post going live.
	JobPostPublished JobType = "post.published"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobUserWelcome, JobPostPublished:
		return true
	default:
		return false
	}
}
