package models

type ServiceType string

const (
	ServiceTypeConstruction ServiceType = "Construction"
	ServiceTypeDelivery     ServiceType = "Delivery"
	ServiceTypeManufacture  ServiceType = "Manufacture"
)

func ValidServiceType(t ServiceType) bool {
	switch t {
	case ServiceTypeConstruction, ServiceTypeDelivery, ServiceTypeManufacture:
		return true
	}
	return false
}

type TenderStatus string

const (
	TenderCreated   TenderStatus = "Created"
	TenderPublished TenderStatus = "Published"
	TenderClosed    TenderStatus = "Closed"
)

func ValidTenderStatus(s TenderStatus) bool {
	switch s {
	case TenderCreated, TenderPublished, TenderClosed:
		return true
	}
	return false
}

type BidStatus string

const (
	BidCreated   BidStatus = "Created"
	BidPublished BidStatus = "Published"
	BidCanceled  BidStatus = "Canceled"
)

func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidCreated, BidPublished, BidCanceled:
		return true
	}
	return false
}

// Decision хранится пустой строкой, пока решение не принято.
type Decision string

const (
	DecisionUnset    Decision = ""
	DecisionApproved Decision = "Approved"
	DecisionRejected Decision = "Rejected"
)

func ValidDecision(d Decision) bool {
	return d == DecisionApproved || d == DecisionRejected
}

type AuthorType string

const (
	AuthorOrganization AuthorType = "Organization"
	AuthorUser         AuthorType = "User"
)

func ValidAuthorType(t AuthorType) bool {
	return t == AuthorOrganization || t == AuthorUser
}

type OrganizationType string

const (
	OrganizationIE  OrganizationType = "IE"
	OrganizationLLC OrganizationType = "LLC"
	OrganizationJSC OrganizationType = "JSC"
)

func ValidOrganizationType(t OrganizationType) bool {
	switch t {
	case OrganizationIE, OrganizationLLC, OrganizationJSC:
		return true
	}
	return false
}

// Ограничения длины полей.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxReviewLength      = 1000
	MaxUsernameLength    = 50
)
