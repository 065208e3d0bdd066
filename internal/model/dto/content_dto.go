package dto

// 内容响应统一带 access 字段（FULL / TEASER / LOCKED）
// 前端只负责按裁决渲染，不做任何独立的权限判断

// RecipeItem 菜谱列表项
type RecipeItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	ImageURL  string `json:"image_url"`
	IsPremium bool   `json:"is_premium"`
}

// RecipeDetail 菜谱详情
// TEASER 时 ingredients / instructions 为空，带升级提示
type RecipeDetail struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	ImageURL     string `json:"image_url"`
	IsPremium    bool   `json:"is_premium"`
	Access       string `json:"access"`
	Ingredients  string `json:"ingredients,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	UpsellHint   string `json:"upsell_hint,omitempty"`
}

// CourseItem 课程列表项
type CourseItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CoverURL  string `json:"cover_url"`
	IsPremium bool   `json:"is_premium"`
}

// CourseDetail 课程落地页（元信息永远可浏览）
type CourseDetail struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	CoverURL    string        `json:"cover_url"`
	IsPremium   bool          `json:"is_premium"`
	Enrolled    bool          `json:"enrolled"`
	Lessons     []*LessonItem `json:"lessons"`
}

// LessonItem 课时列表项（带各自的访问裁决）
type LessonItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	IsFree   bool   `json:"is_free"`
	Access   string `json:"access"`
}

// LessonDetail 课时详情
// LOCKED 时 video_url / content 为空，带升级提示
type LessonDetail struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	Title      string `json:"title"`
	Position   int    `json:"position"`
	IsFree     bool   `json:"is_free"`
	Access     string `json:"access"`
	VideoURL   string `json:"video_url,omitempty"`
	Content    string `json:"content,omitempty"`
	UpsellHint string `json:"upsell_hint,omitempty"`
}

// EnrollResponse 报名响应
type EnrollResponse struct {
	CourseID  int64  `json:"course_id"`
	Enrolled  bool   `json:"enrolled"`
	CreatedAt string `json:"created_at"`
}
