package task

import "time"

// Postgresのtimestamp分解能はマイクロ秒のため、期間終端は
// 次期間の開始からマイクロ秒を引いた包含境界とする。
const rangeEndOffset = -time.Microsecond

// DayRange は指定日を含むその日1日の期間を返す。
// 期間は[当日00:00:00, 翌日00:00:00-1µs]の両端を含む範囲。
func DayRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1).Add(rangeEndOffset)
	return start, end
}

// WeekRange は指定日を含む週の期間を返す。週は日曜始まり。
func WeekRange(date time.Time) (time.Time, time.Time) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
	end := start.AddDate(0, 0, 7).Add(rangeEndOffset)
	return start, end
}

// MonthRange は指定日を含む月の期間を返す。
func MonthRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 1, 0).Add(rangeEndOffset)
	return start, end
}
