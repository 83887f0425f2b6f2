// Package gender_enum 定义用户性别
package gender_enum

const (
	MALE    int8 = 0
	FEMALE  int8 = 1
	UNKNOWN int8 = 2
)
