package views

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "gallerydesk_lang"
)

var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

// Supported returns the languages with a catalog, the default first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// ParseTag matches value against the supported languages.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.English, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English, false
	}
	return supported[idx], true
}

// ResolveTag picks the language for r: the lang query parameter, then the
// lang cookie, then Accept-Language. The bool reports whether the choice
// came from the query and should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return language.English, false
	}
	if v := r.URL.Query().Get(LangParam); v != "" {
		if tag, ok := ParseTag(v); ok {
			return tag, true
		}
	}
	if ck, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(ck.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				return supported[idx], false
			}
		}
	}
	return language.English, false
}

// SetLanguageCookie persists tag on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

func init() {
	for key, pair := range catalog {
		message.SetString(language.English, key, pair[0])
		message.SetString(language.Korean, key, pair[1])
	}
}

// catalog maps message keys to their English and Korean text.
var catalog = map[string][2]string{
	"nav.gallery":  {"Gallery", "갤러리"},
	"nav.admin":    {"Admin", "관리자"},
	"nav.profile":  {"My Info", "내 정보"},
	"nav.logout":   {"Logout", "로그아웃"},
	"nav.login":    {"Login", "로그인"},
	"nav.register": {"Register", "회원가입"},

	"login.title":                {"Login", "로그인"},
	"login.email":                {"Email", "이메일"},
	"login.email_placeholder":    {"Enter your email", "이메일을 입력하세요"},
	"login.password":             {"Password", "비밀번호"},
	"login.password_placeholder": {"Enter your password", "비밀번호를 입력하세요"},
	"login.submit":               {"Login", "로그인"},
	"login.error.missing":        {"Please enter your email and password.", "이메일과 비밀번호를 입력해주세요."},
	"login.error.email":          {"Please enter a valid email address.", "유효한 이메일 주소를 입력해주세요."},
	"login.error.invalid":        {"Invalid email or password", "이메일 또는 비밀번호가 올바르지 않습니다."},
	"login.error.rate":           {"Too many login attempts. Try again later.", "로그인 시도가 너무 많습니다. 잠시 후 다시 시도해주세요."},
	"login.expired":              {"Your session has expired. Please log in again.", "세션이 만료되었습니다. 다시 로그인해주세요."},
	"login.need_account":         {"No account yet?", "아직 계정이 없으신가요?"},

	"register.title":        {"Register", "회원가입"},
	"register.submit":       {"Register", "회원가입"},
	"register.error.failed": {"Registration failed", "회원가입에 실패했습니다."},
	"register.done":         {"Registration complete. Please log in.", "회원가입이 완료되었습니다. 로그인해주세요."},
	"register.have_account": {"Already have an account?", "이미 계정이 있으신가요?"},

	"gallery.search_placeholder": {"Search images", "검색어를 입력하세요"},
	"gallery.search":             {"Search", "검색"},
	"gallery.details":            {"Details", "상세보기"},
	"gallery.edit":               {"Edit", "수정"},
	"gallery.delete":             {"Delete", "삭제"},
	"gallery.untitled":           {"Untitled", "제목 없음"},
	"gallery.no_description":     {"No description available", "설명이 없습니다"},
	"gallery.empty":              {"No images yet.", "이미지가 없습니다."},
	"gallery.deleted":            {"Image deleted successfully", "이미지가 삭제되었습니다"},
	"gallery.delete_failed":      {"Failed to delete image", "이미지 삭제에 실패했습니다"},
	"gallery.invalid_id":         {"Cannot delete image with invalid file_id", "유효하지 않은 file_id의 이미지는 삭제할 수 없습니다"},
	"gallery.no_thumbnail":       {"Image unavailable", "이미지를 불러올 수 없습니다"},
	"dialog.ok":                  {"OK", "확인"},

	"detail.back":      {"Back to List", "목록으로"},
	"detail.loading":   {"Loading...", "로딩 중..."},
	"detail.image_alt": {"Image", "이미지"},

	"edit.title":                {"Edit Image", "이미지 수정"},
	"edit.field_title":          {"Title", "제목"},
	"edit.field_interpretation": {"Interpretation", "해석"},
	"edit.back":                 {"Back", "뒤로가기"},
	"edit.save":                 {"Save", "수정완료"},
	"edit.save_failed":          {"Failed to save changes", "수정에 실패했습니다"},

	"admin.select_user":        {"Select User", "사용자 선택"},
	"admin.show_all":           {"Show All Images", "모든 이미지 보기"},
	"admin.col_id":             {"ID", "ID"},
	"admin.col_title":          {"Title", "제목"},
	"admin.col_image":          {"Image", "이미지"},
	"admin.col_upload":         {"Upload Time", "업로드 시간"},
	"admin.col_interpretation": {"Interpretation", "해석"},
	"admin.col_email":          {"User Email", "사용자 이메일"},
	"admin.col_actions":        {"Actions", "작업"},
	"admin.no_title":           {"No Title", "제목 없음"},
	"admin.new":                {"NEW", "NEW"},
	"admin.edit":               {"Edit", "수정"},
	"admin.edit_title":         {"Edit Image Details", "이미지 정보 수정"},
	"admin.close":              {"Close", "닫기"},
	"admin.save":               {"Save changes", "변경 사항 저장"},
	"admin.image":              {"Image", "이미지"},
	"admin.saved":              {"Changes saved", "저장되었습니다"},
	"admin.save_failed":        {"Failed to save changes", "저장에 실패했습니다"},
	"admin.not_found":          {"Image not found", "이미지를 찾을 수 없습니다"},

	"profile.title":  {"My Info", "내 정보"},
	"profile.tester": {"✨Beta tester✨", "✨베타테스터✨"},
	"profile.back":   {"Back", "뒤로가기"},

	"error.not_found": {"Page not found", "페이지를 찾을 수 없습니다"},
	"error.server":    {"Something went wrong", "문제가 발생했습니다"},
	"error.home":      {"Back to home", "홈으로"},

	"lang.en": {"English", "English"},
	"lang.ko": {"한국어", "한국어"},
}
