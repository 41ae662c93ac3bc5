package workflow

// ApprovalStyle says whether approvals are tracked per user or globally for a
// store or company.
type ApprovalStyle string

const (
	PerUser ApprovalStyle = "Per User"
	Global  ApprovalStyle = "Global"
)

// DefaultApprovalStyle applies when neither store nor company configures one.
const DefaultApprovalStyle = PerUser

// IsSet reports whether a style is configured.
func (s ApprovalStyle) IsSet() bool {
	return s != ""
}
