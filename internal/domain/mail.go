package domain

import "encoding/json"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ResetPasswordMailData struct {
	Login      string `json:"login"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// ResetPasswordData восстанавливает типизированные данные письма: после
// очереди json кладёт в Data обычный map, и шаблон по именам полей
// структуры ничего бы в нём не нашёл.
func (m *MailMessage) ResetPasswordData() (ResetPasswordMailData, error) {
	raw, err := json.Marshal(m.Data)
	if err != nil {
		return ResetPasswordMailData{}, err
	}

	var data ResetPasswordMailData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ResetPasswordMailData{}, err
	}

	return data, nil
}
