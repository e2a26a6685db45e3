package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 简历上传
const (
	MimePDF          = "application/pdf"
	MaxResumeSize    = 5 << 20
	ResumeFolder     = "resumes"
	ParseErrorDetail = "Failed to parse AI response"
)

// 代码类接口支持的语言
const (
	LangJava = "java"
	LangCpp  = "cpp"
)

var SupportedLanguages = []string{LangJava, LangCpp}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
