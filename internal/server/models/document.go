package models

// PolicyDocument is a free-text document (insurance policy, statement notes)
// indexed for full-text / semantic retrieval by the agent.
type PolicyDocument struct {
	Text     string           `json:"text"`
	Filename string           `json:"filename"`
	Username string           `json:"username"`
	Metadata DocumentMetadata `json:"metadata"`
}

type DocumentMetadata struct {
	Type string `json:"type"`
}

// DocumentTypeInsurancePolicy is the metadata type for ingested policies.
const DocumentTypeInsurancePolicy = "insurance_policy"
