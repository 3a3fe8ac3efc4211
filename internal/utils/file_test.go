package utils

import "testing"

func TestIsResumeFile(t *testing.T) {
	pdfMagic := []byte("%PDF-1.7 content")
	zipMagic := []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00}

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     bool
	}{
		{"pdf extension", "resume.pdf", []byte("anything"), true},
		{"docx extension", "resume.docx", []byte("anything"), true},
		{"uppercase extension", "RESUME.PDF", []byte("anything"), true},
		{"pdf content without extension", "resume", pdfMagic, true},
		{"zip content with docx name", "resume.docx.bak", zipMagic, false},
		{"plain text", "resume.txt", []byte("just words"), false},
		{"empty data unknown name", "resume", []byte{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsResumeFile(tt.filename, tt.data); got != tt.want {
				t.Errorf("IsResumeFile(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestResumeContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"cv.pdf", "application/pdf"},
		{"cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"cv.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ResumeContentType(tt.filename); got != tt.want {
			t.Errorf("ResumeContentType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestGetFileExtension(t *testing.T) {
	if got := GetFileExtension("Resume.PDF"); got != ".pdf" {
		t.Errorf("GetFileExtension() = %q, want .pdf", got)
	}
	if got := GetFileExtension("no-extension"); got != "" {
		t.Errorf("GetFileExtension() = %q, want empty", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestIsTextFile(t *testing.T) {
	if !IsTextFile("jd.txt") {
		t.Error("jd.txt should be a text file")
	}
	if IsTextFile("jd.pdf") {
		t.Error("jd.pdf should not be a text file")
	}
}
