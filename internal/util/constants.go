package util

const (
	DateFormat      = "2006-01-02"
	MonthFormat     = "2006-01"
	TimeOfDayFormat = "15:04"
	TimeFormat      = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageS3    = "s3"
)

const (
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
