package violator

// CreateRecordDTO is a new entry for the violator database.
type CreateRecordDTO struct {
	FullName    string `json:"fullName" validate:"required,max=200"`
	BirthDate   string `json:"birthDate" validate:"omitempty,isodate"`
	Document    string `json:"document" validate:"required,max=100"`
	CaseNumber  string `json:"caseNumber" validate:"max=100"`
	CaseType    string `json:"caseType" validate:"omitempty,oneof=Административное Уголовное"`
	Status      string `json:"status" validate:"max=100"`
	Department  string `json:"department" validate:"max=100"`
	Officer     string `json:"officer" validate:"max=200"`
	Address     string `json:"address" validate:"max=500"`
	Phone       string `json:"phone" validate:"max=50"`
	Description string `json:"description"`
}

func (dto CreateRecordDTO) record() Record {
	return Record{
		FullName:    dto.FullName,
		BirthDate:   dto.BirthDate,
		Document:    dto.Document,
		CaseNumber:  dto.CaseNumber,
		CaseType:    dto.CaseType,
		Status:      dto.Status,
		Department:  dto.Department,
		Officer:     dto.Officer,
		Address:     dto.Address,
		Phone:       dto.Phone,
		Description: dto.Description,
	}
}
