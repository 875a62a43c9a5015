package invoice

// Role 标明实体在发票上的身份。
type Role int

const (
	RoleContractor Role = iota
	RoleClient
)

// Label 返回发票上的角色标题。
func (r Role) Label() string {
	switch r {
	case RoleContractor:
		return "DODAVATEL"
	case RoleClient:
		return "ODBĚRATEL"
	default:
		return ""
	}
}

func (r Role) String() string {
	switch r {
	case RoleContractor:
		return "contractor"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// Entity 是发票上的一方（供应商或客户）。VATNumber 为空表示非增值税纳税人。
type Entity struct {
	Identifier RegistrationNumber `json:"identifier"`
	Name       string             `json:"name"`
	Address    Address            `json:"address"`
	VATNumber  string             `json:"vatNumber,omitempty"`
}

// VATRegistered 报告是否为增值税纳税人。
func (e Entity) VATRegistered() bool { return e.VATNumber != "" }
