package commands

import (
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// NewRootCommand 创建 ro5ctl 根命令
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ro5ctl",
		Short:   "Lipinski 五规则化合物筛选工具",
		Version: version,
		Long: `按 Lipinski 五规则（分子量、LogP、氢键供体数、氢键受体数）筛选化合物数据集。

数据集为包含 generic_name 与 smiles 列的制表符分隔文本，可来自 URL 或本地文件。`,
		Example: `  # 使用默认阈值筛选 FDA 药物表
  $ ro5ctl screen

  # 筛选本地文件并放宽分子量
  $ ro5ctl screen --file drugs.txt --mw 600

  # 计算单个结构的描述符
  $ ro5ctl describe "CC(=O)OC1=CC=CC=C1C(=O)O"`,
		SilenceUsage: true,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(newScreenCmd())
	rootCmd.AddCommand(newDescribeCmd())
	return rootCmd
}

// Execute 执行根命令
func Execute() error {
	return NewRootCommand().Execute()
}
