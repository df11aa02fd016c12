package i18n

var english = map[string]string{
	"AUTH_REQUIRED":            "Please sign in to continue.",
	"AUTH_FORBIDDEN":           "Only admins can manage campaigns.",
	"AUTH_INVALID_CREDENTIALS": "Wrong username or password.",
	"AUTH_INVALID_TOKEN":       "Your session has expired. Please sign in again.",
	"USERNAME_TAKEN":           "A user with this username already exists.",
	"USER_INVALID":             "Username and password are required.",
	"USER_NOT_FOUND":           "User not found.",

	"CAMPAIGN_NOT_FOUND":      "Campaign not found.",
	"CAMPAIGN_SLUG_TAKEN":     "A campaign with this link already exists.",
	"CAMPAIGN_NAME_REQUIRED":  "Please enter the campaign name.",
	"CAMPAIGN_SLUG_INVALID":   "The campaign link may only contain lowercase letters, digits and dashes.",
	"CAMPAIGN_COLOR_INVALID":  "The background color must be a hex color such as #FFFFFF.",
	"CAMPAIGN_SLUG_IMMUTABLE": "The link of a saved campaign cannot be changed.",

	"SECTION_UNKNOWN_TYPE":              "Unknown section type.",
	"SECTION_TITLE_REQUIRED":            "This section needs a title.",
	"SECTION_CONTENT_REQUIRED":          "This section needs content.",
	"SECTION_CONTENT_MISMATCH":          "The content does not match the section type.",
	"SECTION_IMAGE_TOO_LARGE":           "The banner image is too large.",
	"SECTION_VIDEO_URL_INVALID":         "Please enter a valid video link.",
	"SECTION_BUTTONS_REQUIRED":          "Add at least one button.",
	"SECTION_BUTTON_LIMIT":              "A section can have at most two buttons.",
	"SECTION_BUTTON_NAME_REQUIRED":      "Every button needs a name.",
	"SECTION_BUTTON_ACTION_REQUIRED":    "Every button needs an action.",
	"SECTION_BUTTON_TYPE_INVALID":       "Button type must be filled or outlined.",
	"SECTION_BUTTON_URL_INVALID":        "External button links must be full http(s) addresses.",
	"SECTION_NO_BUTTONS":                "This section type has no buttons.",
	"SECTION_INDEX_OUT_OF_RANGE":        "That section does not exist.",
	"SECTION_BUTTON_INDEX_OUT_OF_RANGE": "That button does not exist.",
	"SECTION_FIELD_INVALID":             "Unknown section field.",
	"SECTION_VALUE_INVALID":             "Invalid value for this field.",
	"EDITOR_SESSION_NOT_FOUND":          "The editing session has expired.",
	"EDITOR_LOAD_SUPERSEDED":            "A newer load replaced this one.",
	"REQUEST_INVALID":                   "The request is invalid.",
	"STORE_UNAVAILABLE":                 "The service is temporarily unavailable. Please try again.",
	"INTERNAL":                          "Something went wrong. Please try again.",

	"page.faq_heading": "Frequently asked questions",
	"page.not_found":   "Campaign not found",
	"page.error":       "Error loading the campaign",

	"section.banner":   "Banner",
	"section.header":   "Header",
	"section.buttons":  "Buttons",
	"section.video":    "Video",
	"section.moreInfo": "More info",

	"field.sectionId": "Section ID",
	"field.title":     "Title",
	"field.content":   "Content",
	"field.image":     "Image",
	"field.video":     "Video link",
	"field.buttons":   "Buttons",
}

var persian = map[string]string{
	"AUTH_REQUIRED":            "لطفا وارد شوید.",
	"AUTH_FORBIDDEN":           "فقط ادمین می‌تواند کمپین‌ها را مدیریت کند",
	"AUTH_INVALID_CREDENTIALS": "نام کاربری یا رمز عبور اشتباه است",
	"AUTH_INVALID_TOKEN":       "نشست شما منقضی شده است. لطفا دوباره وارد شوید",
	"USERNAME_TAKEN":           "کاربری با این نام کاربری قبلا وجود دارد",
	"USER_INVALID":             "نام کاربری و رمز عبور الزامی است",
	"USER_NOT_FOUND":           "کاربر یافت نشد",

	"CAMPAIGN_NOT_FOUND":      "کمپین یافت نشد",
	"CAMPAIGN_SLUG_TAKEN":     "کمپین با این لینک قبلا وجود دارد",
	"CAMPAIGN_NAME_REQUIRED":  "لطفا نام کمپین را وارد کنید",
	"CAMPAIGN_SLUG_INVALID":   "لینک کمپین فقط می‌تواند شامل حروف کوچک، اعداد و خط تیره باشد",
	"CAMPAIGN_COLOR_INVALID":  "رنگ پس‌زمینه باید یک رنگ هگز مانند #FFFFFF باشد",
	"CAMPAIGN_SLUG_IMMUTABLE": "لینک کمپین ذخیره‌شده قابل تغییر نیست",

	"SECTION_UNKNOWN_TYPE":              "نوع سکشن نامعتبر است",
	"SECTION_TITLE_REQUIRED":            "این سکشن به عنوان نیاز دارد",
	"SECTION_CONTENT_REQUIRED":          "این سکشن به محتوا نیاز دارد",
	"SECTION_CONTENT_MISMATCH":          "محتوا با نوع سکشن همخوانی ندارد",
	"SECTION_IMAGE_TOO_LARGE":           "تصویر بنر بیش از حد بزرگ است",
	"SECTION_VIDEO_URL_INVALID":         "لطفا لینک ویدیو معتبر وارد کنید",
	"SECTION_BUTTONS_REQUIRED":          "حداقل یک دکمه اضافه کنید",
	"SECTION_BUTTON_LIMIT":              "هر سکشن حداکثر دو دکمه می‌تواند داشته باشد",
	"SECTION_BUTTON_NAME_REQUIRED":      "هر دکمه به نام نیاز دارد",
	"SECTION_BUTTON_ACTION_REQUIRED":    "هر دکمه به عملکرد نیاز دارد",
	"SECTION_BUTTON_TYPE_INVALID":       "نوع دکمه باید filled یا outlined باشد",
	"SECTION_BUTTON_URL_INVALID":        "لینک خارجی دکمه باید آدرس کامل http(s) باشد",
	"SECTION_NO_BUTTONS":                "این نوع سکشن دکمه ندارد",
	"SECTION_INDEX_OUT_OF_RANGE":        "این سکشن وجود ندارد",
	"SECTION_BUTTON_INDEX_OUT_OF_RANGE": "این دکمه وجود ندارد",
	"SECTION_FIELD_INVALID":             "فیلد سکشن نامعتبر است",
	"SECTION_VALUE_INVALID":             "مقدار این فیلد نامعتبر است",
	"EDITOR_SESSION_NOT_FOUND":          "نشست ویرایش منقضی شده است",
	"EDITOR_LOAD_SUPERSEDED":            "بارگذاری جدیدتری جایگزین این درخواست شد",
	"REQUEST_INVALID":                   "درخواست نامعتبر است",
	"STORE_UNAVAILABLE":                 "سرویس موقتا در دسترس نیست. لطفا دوباره تلاش کنید",
	"INTERNAL":                          "خطایی رخ داد. لطفا دوباره تلاش کنید",

	"page.faq_heading": "سوالات متداول",
	"page.not_found":   "کمپین یافت نشد",
	"page.error":       "خطا در دریافت کمپین",

	"section.banner":   "بنر",
	"section.header":   "سربرگ",
	"section.buttons":  "دکمه",
	"section.video":    "ویدیو",
	"section.moreInfo": "اطلاعات بیشتر",

	"field.sectionId": "سکشن ID",
	"field.title":     "عنوان",
	"field.content":   "محتوا",
	"field.image":     "تصویر",
	"field.video":     "لینک ویدیو",
	"field.buttons":   "دکمه‌ها",
}
