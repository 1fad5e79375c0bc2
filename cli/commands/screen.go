package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"ro5-service/service/compound"
	"ro5-service/service/dataset"
	"ro5-service/service/descriptor"
)

// 输出格式
const (
	outputTSV  = "tsv"
	outputJSON = "json"
)

type screenOptions struct {
	url            string
	file           string
	format         string
	charset        string
	nameColumn     string
	smilesColumn   string
	keepIncomplete bool
	timeout        time.Duration
	mw             float64
	logp           float64
	hbd            int
	hba            int
	workers        int
	output         string
}

func newScreenCmd() *cobra.Command {
	opts := &screenOptions{}
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "筛选化合物数据集",
		Long: `读取化合物数据集，计算每个结构的精确分子量、LogP、氢键供体数与受体数，
输出满足全部阈值（闭区间）的化合物，按分子量降序排列。

任一结构编码无法解析时整体失败，不输出部分结果。`,
		Example: `  $ ro5ctl screen --url https://example.org/drugs.txt
  $ ro5ctl screen --file drugs.csv --format csv --output json
  $ ro5ctl screen --mw 500 --logp 5 --hbd 5 --hba 10 --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, opts)
		},
	}

	d := compound.DefaultThresholds
	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", dataset.DefaultDatasetURL, "数据集 URL")
	flags.StringVarP(&opts.file, "file", "f", "", "本地数据集文件，设置后忽略 --url")
	flags.StringVar(&opts.format, "format", dataset.FormatTSV, "数据集格式 tsv|csv")
	flags.StringVar(&opts.charset, "charset", "", "数据集字符集，如 gbk、latin1")
	flags.StringVar(&opts.nameColumn, "name-column", "", "名称列，默认 generic_name")
	flags.StringVar(&opts.smilesColumn, "smiles-column", "", "结构编码列，默认 smiles")
	flags.BoolVar(&opts.keepIncomplete, "keep-incomplete", false, "保留含缺失值的行")
	flags.DurationVar(&opts.timeout, "timeout", dataset.DefaultHTTPTimeout, "下载超时")
	flags.Float64Var(&opts.mw, "mw", d.MolWeight, "分子量上限")
	flags.Float64Var(&opts.logp, "logp", d.LogP, "LogP 上限")
	flags.IntVar(&opts.hbd, "hbd", d.HDonors, "氢键供体数上限")
	flags.IntVar(&opts.hba, "hba", d.HAcceptors, "氢键受体数上限")
	flags.IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "并行计算协程数")
	flags.StringVarP(&opts.output, "output", "o", outputTSV, "输出格式 tsv|json")
	return cmd
}

func runScreen(cmd *cobra.Command, opts *screenOptions) error {
	if opts.output != outputTSV && opts.output != outputJSON {
		return fmt.Errorf("不支持的输出格式: %s", opts.output)
	}

	tableOpts := dataset.TableOptions{
		Format:         opts.format,
		Charset:        opts.charset,
		NameColumn:     opts.nameColumn,
		SmilesColumn:   opts.smilesColumn,
		DropIncomplete: !opts.keepIncomplete,
	}
	var source dataset.Source
	if opts.file != "" {
		source = dataset.NewFileSource(opts.file, tableOpts)
	} else {
		source = dataset.NewHTTPSource(opts.url, tableOpts, opts.timeout)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc := compound.NewService(source, descriptor.NewToolkitCalculator(), nil, opts.workers)
	thresholds := compound.DefaultThresholds
	thresholds.MolWeight, thresholds.LogP = opts.mw, opts.logp
	thresholds.HDonors, thresholds.HAcceptors = opts.hbd, opts.hba

	result, err := svc.Screen(ctx, thresholds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if err := compound.WriteTSV(out, result.Result); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d/%d 个化合物满足阈值 (耗时 %s)\n", result.Matched, result.Total, result.Duration.Round(time.Millisecond))
	return nil
}
