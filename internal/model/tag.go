package model

// Tag предмет из справочника курсов. Справочник read-only,
// администрируется вне этого ядра.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tutor профиль репетитора: отдельный идентификатор поверх
// пользовательского uid владельца
type Tutor struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}
