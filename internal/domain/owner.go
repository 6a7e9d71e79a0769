package domain

// OwnerKind identifica qual tabela detém a propriedade de um recurso
// (vaga ou pergunta): empresa registrada ou cliente curado por admin.
type OwnerKind string

const (
	OwnerCompany OwnerKind = "company"
	OwnerClient  OwnerKind = "client"
)

// Owner é o dono exclusivo de um recurso. Modelado como união etiquetada
// (em vez de duas FKs anuláveis) para que a exclusividade mútua seja
// garantia do tipo, não suposição de runtime.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// CompanyOwner constrói um dono do tipo empresa registrada.
func CompanyOwner(companyID string) Owner {
	return Owner{Kind: OwnerCompany, ID: companyID}
}

// ClientOwner constrói um dono do tipo cliente administrado.
func ClientOwner(clientID string) Owner {
	return Owner{Kind: OwnerClient, ID: clientID}
}

// IsZero indica um Owner não preenchido.
func (o Owner) IsZero() bool {
	return o.Kind == "" && o.ID == ""
}
