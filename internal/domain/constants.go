package domain

const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

const (
	ChainVisibilityPublic  = "PUBLIC"
	ChainVisibilityPrivate = "PRIVATE"
)

const (
	PostPolicyVerifiedOnly   = "VERIFIED_ONLY"
	PostPolicyModeratorsOnly = "MODERATORS_ONLY"
	PostPolicyLevelBased     = "LEVEL_BASED"
)

const (
	VoteUp   = "UP"
	VoteDown = "DOWN"
)

const (
	VerificationPending  = "PENDING"
	VerificationApproved = "APPROVED"
	VerificationRejected = "REJECTED"
)

const (
	ReferralStatusActive   = "ACTIVE"
	ReferralStatusInactive = "INACTIVE"
)

// XP action tags, recorded on every ledger entry for audit classification.
const (
	ActionThreadCreated         = "THREAD_CREATED"
	ActionChainCreated          = "CHAIN_CREATED"
	ActionUpvoteGiven           = "UPVOTE_GIVEN"
	ActionDownvoteGiven         = "DOWNVOTE_GIVEN"
	ActionReferralUsed          = "REFERRAL_USED"
	ActionReferralEarned        = "REFERRAL_EARNED"
	ActionVerificationCompleted = "VERIFICATION_COMPLETED"
)

// XP awarded per action.
const (
	XPThreadCreated         = 10
	XPChainCreated          = 25
	XPUpvoteGiven           = 2
	XPDownvoteGiven         = 1
	XPReferralUsed          = 50  // for the user who redeemed a code
	XPReferralEarned        = 100 // for the owner of the redeemed code
	XPVerificationCompleted = 20
)

const (
	ReferralCodeLength      = 8
	ReferralCodeMaxUses     = 5
	ReferralCodeGenAttempts = 10

	// Setting keys
	SettingUserCap          = "user_cap"
	SettingLeaderboardLimit = "leaderboard_limit"

	MaxTagsPerThread = 5
	MaxTagsPerChain  = 5

	// Minimum level required to post in LEVEL_BASED chains.
	LevelBasedMinLevel = 2
)
