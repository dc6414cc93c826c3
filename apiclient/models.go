package apiclient

// Nullable numbers from the API decode to their zero value; the console renders them as "-".

type (
	Teacher struct {
		ID           int64  `json:"id"`
		UserID       int64  `json:"userId"`
		Username     string `json:"username"`
		FullName     string `json:"fullName"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Instrument   string `json:"instrument"`
		Gender       string `json:"gender"`
		Position     string `json:"position"`
		TeachingType string `json:"teachingType"`
		Status       string `json:"status"`
		Note         string `json:"note"`
	}

	TeacherForm struct {
		Username     string `json:"username,omitempty" form:"username"`
		Password     string `json:"password,omitempty" form:"password"`
		FullName     string `json:"fullName" form:"fullName" validate:"required"`
		Email        string `json:"email" form:"email" validate:"omitempty,email"`
		Phone        string `json:"phone" form:"phone"`
		Instrument   string `json:"instrument" form:"instrument"`
		Gender       string `json:"gender" form:"gender"`
		Position     string `json:"position" form:"position"`
		TeachingType string `json:"teachingType" form:"teachingType"`
		Status       string `json:"status" form:"status"`
		Note         string `json:"note" form:"note"`
	}

	Student struct {
		ID                int64  `json:"id"`
		UserID            int64  `json:"userId"`
		Username          string `json:"username"`
		FullName          string `json:"fullName"`
		Email             string `json:"email"`
		Phone             string `json:"phone"`
		ParentName        string `json:"parentName"`
		ParentPhone       string `json:"parentPhone"`
		LessonType        string `json:"lessonType"`
		ScheduleText      string `json:"scheduleText"`
		TotalSessions     int    `json:"totalSessions"`
		CompletedSessions int    `json:"completedSessions"`
		RemainingSessions int    `json:"remainingSessions"`
		Status            string `json:"status"`
		MainTeacherName   string `json:"mainTeacherName"`
		CareStaffName     string `json:"careStaffName"`
		CourseID          int64  `json:"courseId"`
		CourseName        string `json:"courseName"`
	}

	StudentForm struct {
		Username    string `json:"username,omitempty" form:"username"`
		Password    string `json:"password,omitempty" form:"password"`
		FullName    string `json:"fullName" form:"fullName" validate:"required"`
		Email       string `json:"email" form:"email" validate:"omitempty,email"`
		Phone       string `json:"phone" form:"phone"`
		ParentName  string `json:"parentName" form:"parentName"`
		ParentPhone string `json:"parentPhone" form:"parentPhone"`
		ParentEmail string `json:"parentEmail" form:"parentEmail" validate:"omitempty,email"`
		Status      string `json:"status" form:"status"`
		Note        string `json:"note" form:"note"`
	}

	SupportUserSummary struct {
		ID               int64  `json:"id"`
		FullName         string `json:"fullName"`
		Phone            string `json:"phone"`
		Email            string `json:"email"`
		TotalStudents    int    `json:"totalStudents"`
		TotalCareRecords int    `json:"totalCareRecords"`
		LastCareTime     string `json:"lastCareTime"`
	}

	SupportUserForm struct {
		Username string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
		FullName string `json:"fullName" form:"fullName" validate:"required"`
		Email    string `json:"email" form:"email" validate:"omitempty,email"`
		Phone    string `json:"phone" form:"phone"`
		Status   string `json:"status" form:"status"`
	}

	StudentOfSupport struct {
		ID                int64  `json:"id"`
		StudentID         int64  `json:"studentId"`
		FullName          string `json:"fullName"`
		Phone             string `json:"phone"`
		Status            string `json:"status"`
		RemainingSessions int    `json:"remainingSessions"`
		TotalSessions     int    `json:"totalSessions"`
		CareRecordCount   int    `json:"careRecordCount"`
		LastCareTime      string `json:"lastCareTime"`
	}

	Course struct {
		ID            int64   `json:"id"`
		Code          string  `json:"code"`
		Name          string  `json:"name"`
		Description   string  `json:"description"`
		Instrument    string  `json:"instrument"`
		Level         string  `json:"level"`
		TuitionFee    float64 `json:"tuitionFee"`
		TotalSessions int     `json:"totalSessions"`
		Status        string  `json:"status"`
	}

	CourseForm struct {
		Code          string   `json:"code" form:"code" validate:"required"`
		Name          string   `json:"name" form:"name" validate:"required"`
		Description   string   `json:"description" form:"description"`
		Instrument    string   `json:"instrument" form:"instrument"`
		Level         string   `json:"level" form:"level"`
		TuitionFee    *float64 `json:"tuitionFee" form:"tuitionFee"`
		TotalSessions *int     `json:"totalSessions" form:"totalSessions"`
		Status        string   `json:"status" form:"status"`
	}

	PackageSchedule struct {
		DayOfWeek int    `json:"dayOfWeek"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		SlotNote  string `json:"slotNote,omitempty"`
	}

	Package struct {
		ID                 int64             `json:"id"`
		StudentID          int64             `json:"studentId"`
		TeacherID          int64             `json:"teacherId"`
		CourseID           int64             `json:"courseId"`
		StudentName        string            `json:"studentName"`
		TeacherName        string            `json:"teacherName"`
		CourseName         string            `json:"courseName"`
		LessonForm         string            `json:"lessonForm"`
		OldPeriodStart     string            `json:"oldPeriodStart"`
		OldPeriodEnd       string            `json:"oldPeriodEnd"`
		CurrentPeriodStart string            `json:"currentPeriodStart"`
		CurrentPeriodEnd   string            `json:"currentPeriodEnd"`
		TuitionAmount      float64           `json:"tuitionAmount"`
		TuitionDueDate     string            `json:"tuitionDueDate"`
		TuitionPaidDate    string            `json:"tuitionPaidDate"`
		TuitionStatus      string            `json:"tuitionStatus"`
		TotalSessions      int               `json:"totalSessions"`
		SessionsCompleted  int               `json:"sessionsCompleted"`
		SessionsRemaining  int               `json:"sessionsRemaining"`
		Status             string            `json:"status"`
		Note               string            `json:"note"`
		Schedules          []PackageSchedule `json:"schedules"`
	}

	PackageForm struct {
		StudentID          int64             `json:"studentId" validate:"required"`
		TeacherID          int64             `json:"teacherId" validate:"required"`
		CourseID           *int64            `json:"courseId"`
		Schedules          []PackageSchedule `json:"schedules"`
		LessonForm         string            `json:"lessonForm"`
		OldPeriodStart     string            `json:"oldPeriodStart,omitempty"`
		OldPeriodEnd       string            `json:"oldPeriodEnd,omitempty"`
		CurrentPeriodStart string            `json:"currentPeriodStart,omitempty"`
		CurrentPeriodEnd   string            `json:"currentPeriodEnd,omitempty"`
		TuitionDueDate     string            `json:"tuitionDueDate,omitempty"`
		TuitionPaidDate    string            `json:"tuitionPaidDate,omitempty"`
		TotalSessions      *int              `json:"totalSessions"`
		SessionsCompleted  *int              `json:"sessionsCompleted"`
		Note               string            `json:"note"`
	}

	Lead struct {
		ID                int64  `json:"id"`
		ParentName        string `json:"parentName"`
		ParentPhone       string `json:"parentPhone"`
		ParentEmail       string `json:"parentEmail"`
		StudentName       string `json:"studentName"`
		StudentAge        int    `json:"studentAge"`
		Instrument        string `json:"instrument"`
		LessonType        string `json:"lessonType"`
		Level             string `json:"level"`
		PreferredSchedule string `json:"preferredSchedule"`
		Source            string `json:"source"`
		Status            string `json:"status"`
		CreatedAt         string `json:"createdAt"`
		LastCareTime      string `json:"lastCareTime"`
		NextCareTime      string `json:"nextCareTime"`
		SupportUserID     int64  `json:"supportUserId"`
		SupportFullName   string `json:"supportFullName"`
	}

	LeadForm struct {
		ParentName        string `json:"parentName" form:"parentName" validate:"required"`
		ParentPhone       string `json:"parentPhone" form:"parentPhone" validate:"required"`
		ParentEmail       string `json:"parentEmail" form:"parentEmail" validate:"omitempty,email"`
		StudentName       string `json:"studentName" form:"studentName"`
		StudentAge        *int   `json:"studentAge" form:"studentAge"`
		Instrument        string `json:"instrument" form:"instrument"`
		LessonType        string `json:"lessonType" form:"lessonType"`
		Level             string `json:"level" form:"level"`
		PreferredSchedule string `json:"preferredSchedule" form:"preferredSchedule"`
		Source            string `json:"source" form:"source"`
		Status            string `json:"status" form:"status"`
	}

	// CareHistory is one logged interaction with a student or a lead.
	CareHistory struct {
		ID              int64  `json:"id"`
		StudentID       int64  `json:"studentId"`
		StudentName     string `json:"studentName"`
		LeadID          int64  `json:"leadId"`
		LeadName        string `json:"leadName"`
		SupportUserID   int64  `json:"supportUserId"`
		SupportFullName string `json:"supportFullName"`
		CareTime        string `json:"careTime"`
		CareType        string `json:"careType"`
		Channel         string `json:"channel"`
		Content         string `json:"content"`
		Result          string `json:"result"`
		Important       bool   `json:"important"`
		NextCareTime    string `json:"nextCareTime"`
	}

	// CareLog is the body of a new care history entry.
	CareLog struct {
		StudentID    int64  `json:"studentId,omitempty"`
		CareType     string `json:"careType,omitempty" form:"careType"`
		Channel      string `json:"channel" form:"channel" validate:"required"`
		Content      string `json:"content" form:"content" validate:"required,notblank"`
		Result       string `json:"result,omitempty" form:"result"`
		Important    bool   `json:"important" form:"important"`
		NextCareTime string `json:"nextCareTime,omitempty"`
	}

	CareReminder struct {
		HistoryID    int64  `json:"historyId"`
		StudentID    int64  `json:"studentId"`
		StudentName  string `json:"studentName"`
		CareType     string `json:"careType"`
		Channel      string `json:"channel"`
		Content      string `json:"content"`
		Important    bool   `json:"important"`
		NextCareTime string `json:"nextCareTime"`
	}

	StudentCareSummary struct {
		ID                    int64   `json:"id"`
		FullName              string  `json:"fullName"`
		Instrument            string  `json:"instrument"`
		ParentName            string  `json:"parentName"`
		ParentPhone           string  `json:"parentPhone"`
		LessonType            string  `json:"lessonType"`
		ScheduleText          string  `json:"scheduleText"`
		Status                string  `json:"status"`
		TotalSessions         int     `json:"totalSessions"`
		CompletedSessions     int     `json:"completedSessions"`
		RemainingSessions     int     `json:"remainingSessions"`
		MainTeacherName       string  `json:"mainTeacherName"`
		TuitionAmount         float64 `json:"tuitionAmount"`
		TuitionPaidDate       string  `json:"tuitionPaidDate"`
		TuitionDueDate        string  `json:"tuitionDueDate"`
		TuitionStatus         string  `json:"tuitionStatus"`
		TuitionReminderStatus string  `json:"tuitionReminderStatus"`
		DaysToDue             *int    `json:"daysToDue"`
	}

	StudentProfile struct {
		ID                    int64   `json:"id"`
		FullName              string  `json:"fullName"`
		Email                 string  `json:"email"`
		Phone                 string  `json:"phone"`
		ParentName            string  `json:"parentName"`
		ParentPhone           string  `json:"parentPhone"`
		ParentEmail           string  `json:"parentEmail"`
		LessonType            string  `json:"lessonType"`
		ScheduleText          string  `json:"scheduleText"`
		CurrentTimeSlot       string  `json:"currentTimeSlot"`
		NewTimeSlot           string  `json:"newTimeSlot"`
		TuitionPaidDate       string  `json:"tuitionPaidDate"`
		TotalSessions         int     `json:"totalSessions"`
		CompletedSessions     int     `json:"completedSessions"`
		RemainingSessions     int     `json:"remainingSessions"`
		Status                string  `json:"status"`
		Note                  string  `json:"note"`
		MainTeacherName       string  `json:"mainTeacherName"`
		CareStaffName         string  `json:"careStaffName"`
		ActivePackageID       int64   `json:"activePackageId"`
		TuitionAmount         float64 `json:"tuitionAmount"`
		TuitionDueDate        string  `json:"tuitionDueDate"`
		TuitionStatus         string  `json:"tuitionStatus"`
		TuitionReminderStatus string  `json:"tuitionReminderStatus"`
		DaysToDue             *int    `json:"daysToDue"`
	}

	TeachingAssignment struct {
		ID          int64  `json:"id"`
		DayOfWeek   int    `json:"dayOfWeek"` // 1=Mon ... 7=Sun
		StartTime   string `json:"startTime"`
		EndTime     string `json:"endTime"`
		Room        string `json:"room"`
		TeacherName string `json:"teacherName"`
		Status      string `json:"status"`
	}

	ChatMessage struct {
		ID           int64  `json:"id"`
		StudentID    int64  `json:"studentId"`
		SenderID     int64  `json:"senderId"`
		SenderName   string `json:"senderName"`
		SenderRole   string `json:"senderRole"` // STUDENT | SUPPORT
		ReceiverID   int64  `json:"receiverId"`
		ReceiverName string `json:"receiverName"`
		Content      string `json:"content"`
		SentAt       string `json:"sentAt"`
		Mine         bool   `json:"mine"`
		Read         bool   `json:"read"`
	}

	TeacherOption struct {
		ID         int64  `json:"id"`
		FullName   string `json:"fullName"`
		Instrument string `json:"instrument,omitempty"`
	}

	AttendanceSlot struct {
		SlotID       int64  `json:"slotId"`
		AttendanceID *int64 `json:"attendanceId"`
		DayOfWeek    int    `json:"dayOfWeek"`
		Date         string `json:"date"`      // 2025-12-04
		StartTime    string `json:"startTime"` // 14:00
		EndTime      string `json:"endTime"`
		TeacherID    int64  `json:"teacherId"`
		TeacherName  string `json:"teacherName"`
		StudentName  string `json:"studentName"`
		Status       string `json:"status"` // PRESENT | ABSENT | ""
		HasImage     bool   `json:"hasImage"`
		ImageURL     string `json:"imageUrl"`
	}

	// DashboardCounts is computed by the console from the four admin lists.
	DashboardCounts struct {
		TotalStudents     int
		TotalTeachers     int
		TotalSupportUsers int
		TotalCourses      int
	}
)
