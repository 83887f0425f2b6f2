// Package msg_type_enum 定义消息内容类型
package msg_type_enum

const (
	TEXT     int8 = 1  // 文本
	IMAGE    int8 = 2  // 图片
	AUDIO    int8 = 3  // 语音
	VIDEO    int8 = 4  // 视频
	FILE     int8 = 5  // 普通文件
	LOCATION int8 = 6  // 位置
	CARD     int8 = 7  // 名片
	SHARE    int8 = 8  // 分享
	SYSTEM   int8 = 9  // 系统消息
	RECALL   int8 = 10 // 撤回提示
	NOTICE   int8 = 11 // 公告
	PDF      int8 = 12 // PDF 文档
)
