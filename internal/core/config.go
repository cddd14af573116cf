package core

type AppConfig interface {
	GetStudentID() string
	IsTelegramSelected() bool
}

type DriverConfig interface {
	GetDriverName() string
}
