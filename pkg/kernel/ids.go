package kernel

// Typed identifiers. They are plain strings in storage and on the wire.

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (id UserID) String() string { return string(id) }
func (id UserID) IsEmpty() bool  { return id == "" }

type CandidateID string

func NewCandidateID(id string) CandidateID { return CandidateID(id) }
func (id CandidateID) String() string      { return string(id) }
func (id CandidateID) IsEmpty() bool       { return id == "" }

type JobID string

func NewJobID(id string) JobID     { return JobID(id) }
func (id JobID) String() string    { return string(id) }
func (id JobID) IsEmpty() bool     { return id == "" }

type InterviewID string

func NewInterviewID(id string) InterviewID { return InterviewID(id) }
func (id InterviewID) String() string      { return string(id) }
func (id InterviewID) IsEmpty() bool       { return id == "" }

type ReviewID string

func NewReviewID(id string) ReviewID { return ReviewID(id) }
func (id ReviewID) String() string   { return string(id) }
func (id ReviewID) IsEmpty() bool    { return id == "" }
